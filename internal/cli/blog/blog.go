// Package blog implements "studioctl blog": the blog listing and articles,
// read from the configured blogs.json.
package blog

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	blogindex "github.com/sakif/studio-site/internal/blog"
	"github.com/sakif/studio-site/internal/cli/app"
	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/present"
	"github.com/sakif/studio-site/internal/view"
)

const (
	excerptWords = 20
	dateLayout   = "January 2, 2006"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "Read the blog",
	}
	cmd.AddCommand(newListCommand(), newShowCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blog posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a blog post and related posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func load(cmd *cobra.Command) (*app.App, *blogindex.Index, error) {
	a, ok := app.FromContext(cmd.Context())
	if !ok {
		return nil, nil, errors.New("failed to get app from context")
	}
	ix, err := blogindex.Load(cmd.Context(), a.Config.Client.BlogIndex, a.HTTP)
	if err != nil {
		return nil, nil, err
	}
	return a, ix, nil
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	a, ix, err := load(cmd)
	if err != nil {
		return err
	}

	size := a.Config.Client.BlogPageSize
	pager := present.NewPager(ix.Page(1, size).TotalPages, nil)
	if pager.Total() == 0 {
		presenter.Println(cmd, "No posts yet.")
		return nil
	}
	if !pager.GoToPage(opts.Page) {
		return fmt.Errorf("page %d does not exist (1-%d)", opts.Page, pager.Total())
	}
	page := ix.Page(pager.Current(), size)

	t := presenter.Table(cmd)
	t.AppendHeader(table.Row{"Date", "Slug", "Title", "Author", "Excerpt"})
	for _, p := range page.Items {
		t.AppendRow(table.Row{
			p.Date.Format(dateLayout),
			p.Slug,
			p.Title,
			p.Author,
			view.TruncateWords(p.Excerpt, excerptWords),
		})
	}
	t.Render()
	presenter.Printf(cmd, "Pages: %s\n", presenter.PageStrip(pager.Current(), pager.Total()))
	return nil
}

func runShow(cmd *cobra.Command, slug string) error {
	_, ix, err := load(cmd)
	if err != nil {
		return err
	}
	post, err := ix.FindBySlug(slug)
	if err != nil {
		return err
	}

	presenter.Printf(cmd, "%s\n%s by %s\n", post.Title, post.Date.Format(dateLayout), post.Author)
	if len(post.Tags) > 0 {
		presenter.Printf(cmd, "Tags: %v\n", post.Tags)
	}
	presenter.Printf(cmd, "\n%s\n", post.Content)

	if related := ix.Related(post); len(related) > 0 {
		presenter.Println(cmd, "\nRelated posts:")
		for _, r := range related {
			presenter.Printf(cmd, "  %s  %s\n", r.Slug, r.Title)
		}
	}
	return nil
}

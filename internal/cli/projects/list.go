package projects

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/present"
	"github.com/sakif/studio-site/internal/view"
)

// excerptWords is how much of the description the listing shows.
const excerptWords = 12

func newListCommand() *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects a page at a time",
		Long: `List projects with the admin dashboard counters.

Usage examples:

1. Newest first, first page:

	studioctl projects list

2. Alphabetical, third page:

	studioctl projects list --sort alphabetical --page 3
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runList(cmd *cobra.Command, opts *listOptions) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	key, ok := view.ParseSortKey(opts.Sort)
	if !ok {
		return fmt.Errorf("unknown sort order %q", opts.Sort)
	}

	records := a.Store.FetchAll(cmd.Context())
	if records == nil {
		return storeErr(a.Store, gateway.MsgList)
	}
	if len(records) == 0 {
		presenter.Println(cmd, "No projects yet.")
		return nil
	}

	sorted := view.SortBy(records, key)
	pageSize := a.Config.Client.PageSize
	pager := present.NewPager(view.Paginate(sorted, 1, pageSize).TotalPages, nil)
	if !pager.GoToPage(opts.Page) {
		return fmt.Errorf("page %d does not exist (1-%d)", opts.Page, pager.Total())
	}
	page := view.Paginate(sorted, pager.Current(), pageSize)

	t := presenter.Table(cmd)
	t.AppendHeader(table.Row{"No.", "ID", "Title", "Type", "Status", "Updated", "Description"})
	for i, p := range page.Items {
		t.AppendRow(table.Row{
			view.SerialNumber(page.StartIndex + i),
			p.ID,
			p.Title,
			p.ProjectType,
			p.DisplayStatus(),
			humanize.Time(p.UpdatedAt),
			view.TruncateWords(p.Description1, excerptWords),
		})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("Showing %d-%d of %d", page.StartIndex+1, page.EndIndex, len(sorted))})
	t.Render()

	stats := view.Summarize(records, time.Now())
	presenter.Printf(cmd, "Pages: %s\n", presenter.PageStrip(pager.Current(), pager.Total()))
	presenter.Printf(cmd, "Total: %d  Recently updated: %d  Active: %d\n",
		stats.Total, stats.RecentlyUpdated, stats.Active)
	return nil
}

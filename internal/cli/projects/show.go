package projects

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/view"
)

// relatedProjects is how many projects of the same type "show" suggests.
const relatedProjects = 3

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a project, its images and related projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, id string) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	p := a.Store.FetchOne(cmd.Context(), id)
	if p == nil {
		return storeErr(a.Store, gateway.MsgGet)
	}

	t := presenter.Table(cmd)
	t.SetTitle("%s", p.Title)
	t.AppendRows([]table.Row{
		{"ID", p.ID},
		{"Type", p.ProjectType},
		{"Area", p.ProjectArea},
		{"Location", p.ProjectLocation},
		{"Status", p.DisplayStatus()},
		{"Created", p.CreatedAt.Format("2006-01-02 15:04")},
		{"Updated", humanize.Time(p.UpdatedAt)},
	})
	t.Render()

	presenter.Printf(cmd, "\n%s\n", p.Description1)
	if p.Description2 != "" {
		presenter.Printf(cmd, "\n%s\n", p.Description2)
	}

	// The slideshow order: main image first, then the gallery.
	images := a.Media.Sequence(*p)
	if len(images) > 0 {
		presenter.Printf(cmd, "\nImages (%d):\n", len(images))
		for i, img := range images {
			presenter.Printf(cmd, "  %d/%d  %s\n", i+1, len(images), img.URL)
		}
	}

	// Related projects need the collection; a failure here only hides them.
	all := a.Store.FetchAll(cmd.Context())
	related := view.Related(all, *p,
		func(p model.Project) string { return p.ID },
		model.Project.Tags,
		relatedProjects,
	)
	if len(related) > 0 {
		presenter.Println(cmd, "\nRelated projects:")
		for _, r := range related {
			presenter.Printf(cmd, "  %s  %s\n", r.ID, r.Title)
		}
	}
	return nil
}

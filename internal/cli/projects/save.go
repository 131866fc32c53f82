package projects

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/present"
)

func newCreateCommand() *cobra.Command {
	opts := &formOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Long: `Create a project. Title, description and a main image are required.

Usage example:

	studioctl projects create --title "Courtyard House" \
		--description "A house around a courtyard." \
		--type Residential --status active \
		--main-image ./main.jpg --image ./1.jpg --image ./2.jpg
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func newUpdateCommand() *cobra.Command {
	opts := &formOptions{}
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a project",
		Long: `Edit a project. The form starts from the current values; only the
flags given change them. New gallery images are added after the existing ones.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args[0], opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runCreate(cmd *cobra.Command, opts *formOptions) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	form := present.ProjectForm{}
	if err := applyFlags(cmd, opts, &form); err != nil {
		return err
	}
	payload, err := form.Payload(a.Uploads, true)
	if err != nil {
		return err
	}

	p := a.Store.Create(cmd.Context(), payload)
	if p == nil {
		return storeErr(a.Store, gateway.MsgCreate)
	}
	presenter.Println(cmd, a.Store.Snapshot().Message)
	presenter.Printf(cmd, "ID: %s\n", p.ID)

	// The listing order is the server's; pick it up again.
	if records := a.Store.FetchAll(cmd.Context()); records != nil {
		presenter.Printf(cmd, "Projects: %d\n", len(records))
	}
	return nil
}

func runUpdate(cmd *cobra.Command, id string, opts *formOptions) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	current := a.Store.FetchOne(cmd.Context(), id)
	if current == nil {
		return storeErr(a.Store, gateway.MsgGet)
	}
	form := present.FormFromProject(*current)
	if err := applyFlags(cmd, opts, &form); err != nil {
		return err
	}
	payload, err := form.Payload(a.Uploads, false)
	if err != nil {
		return err
	}

	p := a.Store.Update(cmd.Context(), id, payload)
	if p == nil {
		return storeErr(a.Store, gateway.MsgUpdate)
	}
	presenter.Println(cmd, a.Store.Snapshot().Message)
	presenter.Printf(cmd, "Images: %d\n", len(a.Media.Sequence(*p)))
	return nil
}

// applyFlags copies the flags the user actually passed onto form, so an
// edit leaves untouched fields as they were.
func applyFlags(cmd *cobra.Command, opts *formOptions, form *present.ProjectForm) error {
	flags := cmd.Flags()
	text := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"title", opts.Title, &form.Title},
		{"description", opts.Description1, &form.Description1},
		{"description2", opts.Description2, &form.Description2},
		{"type", opts.ProjectType, &form.ProjectType},
		{"area", opts.ProjectArea, &form.ProjectArea},
		{"location", opts.ProjectLocation, &form.ProjectLocation},
		{"status", opts.Status, &form.Status},
	}
	for _, f := range text {
		if flags.Changed(f.flag) {
			*f.dst = f.src
		}
	}

	if opts.MainImage != "" {
		u, err := gateway.FileUpload(opts.MainImage)
		if err != nil {
			return fmt.Errorf("main image: %w", err)
		}
		form.MainImage = &u
	}
	for _, path := range opts.Images {
		u, err := gateway.FileUpload(path)
		if err != nil {
			return fmt.Errorf("gallery image: %w", err)
		}
		form.OtherImages = append(form.OtherImages, u)
	}
	return nil
}

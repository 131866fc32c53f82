package projects

import (
	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/view"
)

type listOptions struct {
	Sort string
	Page int
}

func (o *listOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.Sort, "sort", string(view.SortNewest),
		"Sort order: newest, oldest or alphabetical")
	flags.IntVar(&o.Page, "page", 1,
		"Page to show")
}

// formOptions mirrors the admin project form.
type formOptions struct {
	Title           string
	Description1    string
	Description2    string
	ProjectType     string
	ProjectArea     string
	ProjectLocation string
	Status          string
	MainImage       string
	Images          []string
}

func (o *formOptions) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.Title, "title", "", "Project title")
	flags.StringVar(&o.Description1, "description", "", "Main description")
	flags.StringVar(&o.Description2, "description2", "", "Secondary description")
	flags.StringVar(&o.ProjectType, "type", "", "Project type (e.g. Residential)")
	flags.StringVar(&o.ProjectArea, "area", "", "Project area (e.g. 2400 sq ft)")
	flags.StringVar(&o.ProjectLocation, "location", "", "Project location")
	flags.StringVar(&o.Status, "status", "", "Status: active or inactive")
	flags.StringVar(&o.MainImage, "main-image", "",
		"Path to the main image. On update, replaces the current one.")
	flags.StringSliceVar(&o.Images, "image", nil,
		"Path to a gallery image; repeat for more. On update, appended to the gallery.")
}

type deleteOptions struct {
	Yes bool
}

func (o *deleteOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false, "Delete without asking for confirmation")
}

package blog

import "github.com/spf13/cobra"

type listOptions struct {
	Page int
}

func (o *listOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Page, "page", 1, "Page to show")
}

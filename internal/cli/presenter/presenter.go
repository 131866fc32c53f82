// Package presenter writes command output.
package presenter

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/view"
)

func Print(cmd *cobra.Command, args ...any) {
	fmt.Fprint(cmd.OutOrStdout(), args...)
}

func Println(cmd *cobra.Command, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), args...)
}

func Printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

// Table returns a table writer that renders to the command's output.
func Table(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

// PageStrip renders the page-number strip with the current page bracketed,
// e.g. "1 … 4 [5] 6 … 10".
func PageStrip(current, total int) string {
	items := view.PageNumbers(current, total)
	parts := make([]string, len(items))
	for i, it := range items {
		s := it.String()
		if !it.Ellipsis && it.Page == current {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}

// Package projects implements "studioctl projects": the admin project list,
// details, create/edit form and delete.
package projects

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/app"
	"github.com/sakif/studio-site/internal/store"
)

// NewCommand returns the "projects" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage portfolio projects",
	}
	cmd.AddCommand(
		newListCommand(),
		newShowCommand(),
		newCreateCommand(),
		newUpdateCommand(),
		newDeleteCommand(),
	)
	return cmd
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a, ok := app.FromContext(cmd.Context())
	if !ok {
		return nil, errors.New("failed to get app from context")
	}
	return a, nil
}

// storeErr turns the store's last error into a command error.
func storeErr(st *store.Store, fallback string) error {
	if msg := st.Snapshot().Err; msg != "" {
		return errors.New(msg)
	}
	return errors.New(fallback)
}

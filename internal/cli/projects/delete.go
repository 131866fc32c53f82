package projects

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/gateway"
)

func newDeleteCommand() *cobra.Command {
	opts := &deleteOptions{}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project and its images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0], opts)
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func runDelete(cmd *cobra.Command, id string, opts *deleteOptions) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}

	if !opts.Yes {
		presenter.Printf(cmd, "Are you sure you want to delete project %s? [y/N] ", id)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			return errors.New("aborted")
		}
	}

	if !a.Store.Remove(cmd.Context(), id) {
		return storeErr(a.Store, gateway.MsgDelete)
	}
	presenter.Println(cmd, a.Store.Snapshot().Message)
	return nil
}

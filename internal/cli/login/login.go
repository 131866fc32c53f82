// Package login implements "studioctl login".
package login

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/app"
	"github.com/sakif/studio-site/internal/cli/presenter"
	"github.com/sakif/studio-site/internal/gateway"
)

// PasswordEnv names the variable the password is read from, so it never
// appears in shell history or the process list.
const PasswordEnv = "STUDIO_PASSWORD"

type options struct {
	User string
}

func NewCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as admin and print a session token",
		Long: `Log in as admin and print a session token.

Usage example:

	export STUDIO_TOKEN=$(STUDIO_PASSWORD=... studioctl login --user admin)
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.User, "user", "u", "admin", "Admin username")
	return cmd
}

func runCommand(cmd *cobra.Command, opts *options) error {
	a, ok := app.FromContext(cmd.Context())
	if !ok {
		return errors.New("failed to get app from context")
	}
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return errors.New(PasswordEnv + " is not set")
	}

	token, err := a.Client.Login(cmd.Context(), opts.User, password)
	if err != nil {
		return err
	}

	presenter.Println(cmd, token)
	if exp, ok := gateway.TokenExpiry(token); ok {
		a.Logger.Info("logged in",
			slog.String("expires", humanize.Time(exp)),
			slog.String("at", exp.Format(time.RFC3339)),
		)
	}
	return nil
}

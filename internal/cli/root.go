// Package cli assembles the studioctl command tree.
package cli

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sakif/studio-site/internal/cli/app"
	"github.com/sakif/studio-site/internal/cli/blog"
	"github.com/sakif/studio-site/internal/cli/login"
	"github.com/sakif/studio-site/internal/cli/projects"
	"github.com/sakif/studio-site/internal/config"
)

type rootOptions struct {
	APIBaseURL     string
	UploadsBaseURL string
	BlogIndex      string
	LogLevel       string
}

// NewRootCommand returns studioctl with every subcommand attached.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "studioctl",
		Short: "Administer the studio portfolio site",
		Long: `studioctl manages the studio's portfolio projects through the projects API
and reads the blog index.

Settings come from STUDIO_* environment variables, a .env file or the YAML
file named by STUDIO_CONFIG_PATH. Mutating commands need STUDIO_TOKEN, as
printed by "studioctl login".
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd, opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.APIBaseURL, "api", "", "Projects API base URL (overrides configuration)")
	flags.StringVar(&opts.UploadsBaseURL, "uploads", "", "Uploads base URL (overrides configuration)")
	flags.StringVar(&opts.BlogIndex, "blog-index", "", "Path or URL of blogs.json (overrides configuration)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		projects.NewCommand(),
		blog.NewCommand(),
		login.NewCommand(),
	)
	return cmd
}

// Execute runs studioctl with ctx as the root context.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	for _, o := range []struct {
		src string
		dst *string
	}{
		{opts.APIBaseURL, &cfg.Client.APIBaseURL},
		{opts.UploadsBaseURL, &cfg.Client.UploadsBaseURL},
		{opts.BlogIndex, &cfg.Client.BlogIndex},
		{opts.LogLevel, &cfg.Log.Level},
	} {
		if o.src != "" {
			*o.dst = o.src
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	cmd.SetContext(app.WithApp(cmd.Context(), a))
	return nil
}

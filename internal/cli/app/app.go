// Package app builds the objects every studioctl command shares and carries
// them through the command context.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/studio-site/internal/config"
	"github.com/sakif/studio-site/internal/gateway"
	"github.com/sakif/studio-site/internal/media"
	"github.com/sakif/studio-site/internal/present"
	"github.com/sakif/studio-site/internal/store"
)

// App is the client side of the site: gateway, store, media resolver and
// upload rules, built once per invocation.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Client  *gateway.Client
	Store   *store.Store
	Media   *media.Resolver
	Uploads present.UploadValidator
	HTTP    *http.Client
}

// New wires an App from configuration. A configured token authenticates
// every gateway request; without one only reads work.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	hc := &http.Client{Timeout: 60 * time.Second}

	opts := []gateway.Option{gateway.WithHTTPClient(hc), gateway.WithLogger(logger)}
	if cfg.Client.Token != "" {
		src, err := gateway.TokenSource(cfg.Client.Token)
		if err != nil {
			return nil, fmt.Errorf("STUDIO_TOKEN: %w", err)
		}
		opts = append(opts, gateway.WithTokenSource(src))
	}

	client, err := gateway.New(cfg.Client.APIBaseURL, opts...)
	if err != nil {
		return nil, err
	}
	resolver, err := media.NewResolver(cfg.Client.UploadsBaseURL)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Store:   store.New(client, logger),
		Media:   resolver,
		Uploads: present.NewUploadValidator(cfg.Client),
		HTTP:    hc,
	}, nil
}

type ctxKey struct{}

// WithApp returns a copy of ctx carrying a.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App set by the root command.
func FromContext(ctx context.Context) (*App, bool) {
	a, ok := ctx.Value(ctxKey{}).(*App)
	return a, ok && a != nil
}

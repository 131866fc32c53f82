// Command server runs the reference projects API: the REST backend the
// studio site and studioctl talk to.
//
// Configuration comes from internal/config (defaults, optional YAML file,
// .env, STUDIO_* variables). The two settings without a usable default:
//
//	STUDIO_JWT_SECRET=$(openssl rand -hex 32)
//	STUDIO_ADMIN_PASSWORD_HASH=$(htpasswd -bnBC 12 "" 'password' | tr -d ':\n')
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/studio-site/internal/config"
	"github.com/sakif/studio-site/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	if cfg.Server.JWTSecret == "" {
		logger.Error("STUDIO_JWT_SECRET is not set")
		os.Exit(1)
	}

	if cfg.Server.DBPath != ":memory:" {
		dbDir := filepath.Dir(cfg.Server.DBPath)
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

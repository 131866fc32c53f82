// Package server is the composition root of the reference projects API.
//
// WIRING:
//
//	config.Config
//	  → sqlite.DB           (projects + admins)
//	  → uploads.Disk        (image files)
//	  → ProjectService, AuthService
//	  → ProjectHandler, AuthHandler
//	  → chi router
//
// Keeping this out of main.go lets tests build the whole API in-process and
// drive it through httptest.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/studio-site/internal/auth"
	"github.com/sakif/studio-site/internal/config"
	"github.com/sakif/studio-site/internal/handler"
	"github.com/sakif/studio-site/internal/middleware"
	sqliteRepo "github.com/sakif/studio-site/internal/repository/sqlite"
	"github.com/sakif/studio-site/internal/service"
	"github.com/sakif/studio-site/internal/uploads"
)

// Server owns the router and the resources it needs to release on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database and upload directory, seeds the admin account when
// a password hash is configured, and registers every route.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Server.JWTSecret, auth.DefaultSessionTTL)
	if err != nil {
		return nil, err
	}

	db, err := sqliteRepo.New(cfg.Server.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	disk, err := uploads.NewDisk(cfg.Server.UploadDir)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening upload dir: %w", err)
	}

	authService := service.NewAuthService(db, tokens, auth.NewPasswordService(), logger)
	if cfg.Server.AdminPasswordHash != "" {
		if err := authService.SeedAdmin(ctx, cfg.Server.AdminUser, cfg.Server.AdminPasswordHash); err != nil {
			db.Close()
			return nil, err
		}
	} else {
		logger.Warn("no admin password hash configured; admin login is disabled")
	}

	projectService := service.NewProjectService(db, disk, service.Limits{
		MaxFileSize:     cfg.Client.MaxFileSizeBytes,
		MaxGalleryCount: cfg.Client.MaxGalleryCount,
	}, logger)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens, disk, authService, projectService)
	return s, nil
}

// setupRoutes registers middleware and routes.
//
// ROUTES:
//
//	GET    /api/projects        public
//	GET    /api/projects/{id}   public
//	POST   /api/projects        bearer token
//	PUT    /api/projects/{id}   bearer token
//	DELETE /api/projects/{id}   bearer token
//	POST   /api/auth/login
//	GET    /uploads/*           stored images
//
// Recoverer sits after Logger so a panic is logged as a 500.
func (s *Server) setupRoutes(tokens *auth.TokenService, disk *uploads.Disk, authService *service.AuthService, projectService *service.ProjectService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", disk.Handler()))

	maxBody := handler.MaxUploadBody(s.config.Client.MaxFileSizeBytes, s.config.Client.MaxGalleryCount)
	projects := handler.NewProjectHandler(projectService, maxBody, s.logger)
	login := handler.NewAuthHandler(authService, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", login.HandleLogin)

		r.Get("/projects", projects.HandleList)
		r.Get("/projects/{id}", projects.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Post("/projects", projects.HandleCreate)
			r.Put("/projects/{id}", projects.HandleUpdate)
			r.Delete("/projects/{id}", projects.HandleDelete)
		})
	})
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute, // uploads
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d/api", s.config.Server.Port)),
			slog.String("database", s.config.Server.DBPath),
			slog.String("uploads", s.config.Server.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}

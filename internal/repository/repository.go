// Package repository declares the storage interfaces the services depend on.
// The sqlite subpackage implements them; service tests use mocks.
package repository

import (
	"context"

	"github.com/sakif/studio-site/internal/model"
)

// ProjectRepository stores portfolio projects.
type ProjectRepository interface {
	// Create assigns ID and timestamps to project and stores it.
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// List returns every project, newest first.
	List(ctx context.Context) ([]model.Project, error)
	// Update overwrites every mutable field and bumps UpdatedAt.
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
}

// AdminRepository stores admin accounts.
type AdminRepository interface {
	// EnsureAdmin creates the admin, or resets the password hash of an
	// existing one with the same username.
	EnsureAdmin(ctx context.Context, username, passwordHash string) (*model.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
}

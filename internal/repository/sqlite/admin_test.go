package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/studio-site/internal/apperror"
)

func TestEnsureAdmin_Create(t *testing.T) {
	db := newTestDB(t)

	a, err := db.EnsureAdmin(context.Background(), "admin", "$2a$04$hash")
	if err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	if a.ID == "" {
		t.Error("EnsureAdmin() did not set ID")
	}

	got, err := db.GetAdminByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatalf("GetAdminByUsername() error = %v", err)
	}
	if got.PasswordHash != "$2a$04$hash" {
		t.Errorf("PasswordHash = %q", got.PasswordHash)
	}
}

func TestEnsureAdmin_RotatesPasswordKeepsID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first, err := db.EnsureAdmin(ctx, "admin", "old")
	if err != nil {
		t.Fatalf("EnsureAdmin() error = %v", err)
	}
	second, err := db.EnsureAdmin(ctx, "admin", "new")
	if err != nil {
		t.Fatalf("second EnsureAdmin() error = %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("ID changed from %s to %s", first.ID, second.ID)
	}
	got, _ := db.GetAdminByUsername(ctx, "admin")
	if got.PasswordHash != "new" {
		t.Errorf("PasswordHash = %q, want %q", got.PasswordHash, "new")
	}
}

func TestGetAdminByUsername_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetAdminByUsername(context.Background(), "nobody")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
)

// newTestDB returns a fresh in-memory database closed at the end of the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestProject(t *testing.T, db *DB, title string, gallery ...string) *model.Project {
	t.Helper()
	p := &model.Project{
		Title:        title,
		Description1: "About " + title,
		MainImage:    "main.jpg",
		OtherImages:  gallery,
	}
	if err := db.Create(context.Background(), p); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// =========================================================================
// CREATE / GET
// =========================================================================

func TestCreate(t *testing.T) {
	db := newTestDB(t)

	p := createTestProject(t, db, "Courtyard House", "g1.jpg", "g2.jpg")

	if p.ID == "" {
		t.Error("Create() did not set ID")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("Create() did not set timestamps")
	}
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)
	created := createTestProject(t, db, "Courtyard House", "g2.jpg", "g1.jpg")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Title != "Courtyard House" {
		t.Errorf("Title = %q, want %q", got.Title, "Courtyard House")
	}
	if len(got.OtherImages) != 2 || got.OtherImages[0] != "g2.jpg" || got.OtherImages[1] != "g1.jpg" {
		t.Errorf("OtherImages = %v, want [g2.jpg g1.jpg] in insertion order", got.OtherImages)
	}
	if !got.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestGetByID_EmptyGallery(t *testing.T) {
	db := newTestDB(t)
	created := createTestProject(t, db, "Bare")

	got, err := db.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.OtherImages == nil {
		t.Error("OtherImages should be an empty slice, not nil")
	}
}

// =========================================================================
// LIST
// =========================================================================

func TestList_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	first := createTestProject(t, db, "First")
	time.Sleep(2 * time.Millisecond)
	second := createTestProject(t, db, "Second")

	got, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d projects, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("List() order = [%s %s], want newest first", got[0].Title, got[1].Title)
	}
}

func TestList_Empty(t *testing.T) {
	db := newTestDB(t)

	got, err := db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", got)
	}
}

// =========================================================================
// UPDATE / DELETE
// =========================================================================

func TestUpdate(t *testing.T) {
	db := newTestDB(t)
	p := createTestProject(t, db, "Old title", "g1.jpg")
	originalUpdated := p.UpdatedAt

	time.Sleep(2 * time.Millisecond)
	p.Title = "New title"
	p.Status = model.StatusInactive
	p.OtherImages = append(p.OtherImages, "g2.jpg")
	if err := db.Update(context.Background(), p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := db.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "New title" || got.Status != model.StatusInactive {
		t.Errorf("got title=%q status=%q after update", got.Title, got.Status)
	}
	if len(got.OtherImages) != 2 {
		t.Errorf("OtherImages = %v, want 2 entries", got.OtherImages)
	}
	if !got.UpdatedAt.After(originalUpdated) {
		t.Error("UpdatedAt was not advanced")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Update(context.Background(), &model.Project{ID: "ghost", Title: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	db := newTestDB(t)
	p := createTestProject(t, db, "Doomed")

	if err := db.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := db.GetByID(context.Background(), p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := db.Delete(context.Background(), p.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// MIGRATIONS
// =========================================================================

func TestNew_ReopensExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studio.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	p := createTestProject(t, db, "Persisted")
	db.Close()

	db, err = New(path)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db.Close()

	if _, err := db.GetByID(context.Background(), p.ID); err != nil {
		t.Errorf("project lost across reopen: %v", err)
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/repository"
)

var _ repository.ProjectRepository = (*DB)(nil)

const projectColumns = `id, title, description1, description2, project_type, project_area,
	project_location, main_image, other_images, status, created_at, updated_at`

// Create stores a new project, filling in ID and timestamps.
//
// xid IDs are 20 URL-safe characters and sort by creation time, which makes
// them a stable tie-breaker for projects created in the same instant.
func (db *DB) Create(ctx context.Context, p *model.Project) error {
	gallery, err := encodeImages(p.OtherImages)
	if err != nil {
		return err
	}

	p.ID = xid.New().String()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Title,
		p.Description1,
		p.Description2,
		p.ProjectType,
		p.ProjectArea,
		p.ProjectLocation,
		p.MainImage,
		gallery,
		p.Status,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating project: %w", err)
	}
	return nil
}

// GetByID returns apperror.ErrNotFound when no project has id.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Project, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("project", id)
		}
		return nil, fmt.Errorf("sqlite: getting project %s: %w", id, err)
	}
	return p, nil
}

// List returns every project, newest first. The portfolio is small enough
// that the client pages it in memory.
func (db *DB) List(ctx context.Context) ([]model.Project, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating projects: %w", err)
	}
	return projects, nil
}

// Update overwrites the stored project with p. ID and CreatedAt are never
// changed; UpdatedAt is set to now.
func (db *DB) Update(ctx context.Context, p *model.Project) error {
	gallery, err := encodeImages(p.OtherImages)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE projects
		 SET title = ?, description1 = ?, description2 = ?, project_type = ?,
		     project_area = ?, project_location = ?, main_image = ?,
		     other_images = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		p.Title,
		p.Description1,
		p.Description2,
		p.ProjectType,
		p.ProjectArea,
		p.ProjectLocation,
		p.MainImage,
		gallery,
		p.Status,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating project %s: %w", p.ID, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("project", p.ID)
	}
	return nil
}

// Delete removes a project. Its image files are the caller's concern.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting project %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("project", id)
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*model.Project, error) {
	var (
		p       model.Project
		gallery string
	)
	if err := s.Scan(
		&p.ID, &p.Title, &p.Description1, &p.Description2,
		&p.ProjectType, &p.ProjectArea, &p.ProjectLocation,
		&p.MainImage, &gallery, &p.Status,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(gallery), &p.OtherImages); err != nil {
		return nil, fmt.Errorf("decoding other_images of %s: %w", p.ID, err)
	}
	if p.OtherImages == nil {
		p.OtherImages = []string{}
	}
	return &p, nil
}

func encodeImages(refs []string) (string, error) {
	if refs == nil {
		refs = []string{}
	}
	b, err := json.Marshal(refs)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding other_images: %w", err)
	}
	return string(b), nil
}

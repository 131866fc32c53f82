package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/studio-site/internal/apperror"
	"github.com/sakif/studio-site/internal/model"
	"github.com/sakif/studio-site/internal/repository"
)

var _ repository.AdminRepository = (*DB)(nil)

// EnsureAdmin inserts the admin or, when the username already exists,
// replaces its password hash. The existing ID is kept so tokens issued
// before a password rotation still name the same account.
func (db *DB) EnsureAdmin(ctx context.Context, username, passwordHash string) (*model.Admin, error) {
	existing, err := db.GetAdminByUsername(ctx, username)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	if existing != nil {
		existing.PasswordHash = passwordHash
		existing.UpdatedAt = now
		_, err = db.conn.ExecContext(ctx,
			`UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?`,
			existing.PasswordHash, existing.UpdatedAt, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: updating admin %s: %w", existing.ID, err)
		}
		return existing, nil
	}

	a := &model.Admin{
		ID:           xid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO admins (id, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Username, a.PasswordHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting admin %q: %w", username, err)
	}
	return a, nil
}

// GetAdminByUsername returns apperror.ErrNotFound for unknown usernames.
func (db *DB) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at, updated_at
		 FROM admins WHERE username = ?`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("admin", username)
		}
		return nil, fmt.Errorf("sqlite: getting admin %q: %w", username, err)
	}
	return &a, nil
}

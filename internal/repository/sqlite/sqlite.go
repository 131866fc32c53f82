// Package sqlite implements the repository interfaces on top of SQLite.
//
// WHY SQLITE?
// The reference API is a development and test double for the real backend.
// An embedded database keeps it to one binary and one file, and ":memory:"
// gives every test a fresh store.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite: no CGo, no C compiler, and the
// server cross-compiles like any other Go program.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool and implements ProjectRepository and
// AdminRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/studio.db" → file on disk
//   - ":memory:"       → in-memory, gone on Close (tests)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open is lazy. Ping surfaces a bad path now rather than on the
	// first request.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets list requests read while an upload is being written.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate brings the schema up to date. Every step is idempotent, so it runs
// on each start.
func (db *DB) migrate() error {
	// other_images holds a JSON array: gallery order is insertion order and
	// a join table would only exist to preserve it.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id               TEXT PRIMARY KEY,
			title            TEXT NOT NULL,
			description1     TEXT NOT NULL DEFAULT '',
			description2     TEXT NOT NULL DEFAULT '',
			project_type     TEXT NOT NULL DEFAULT '',
			project_area     TEXT NOT NULL DEFAULT '',
			project_location TEXT NOT NULL DEFAULT '',
			main_image       TEXT NOT NULL DEFAULT '',
			other_images     TEXT NOT NULL DEFAULT '[]',
			created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating projects table: %w", err)
	}

	// Status arrived after the first deployments; older files lack it.
	if err := db.addColumnIfNotExists("projects", "status", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return fmt.Errorf("adding status to projects: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS admins (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating admins table: %w", err)
	}

	return nil
}

// addColumnIfNotExists makes ALTER TABLE ADD COLUMN safe to repeat.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}

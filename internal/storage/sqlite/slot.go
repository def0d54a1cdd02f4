// Package sqlite stores slot values in a SQLite table using modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"todo-store/internal/errors"
	"todo-store/internal/storage/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Options tunes the SQLite slot.
type Options struct {
	QueryTimeout   time.Duration
	WriteTimeout   time.Duration
	DirPermissions os.FileMode
}

// DefaultOptions returns the timeouts used when none are configured.
func DefaultOptions() Options {
	return Options{
		QueryTimeout:   5 * time.Second,
		WriteTimeout:   5 * time.Second,
		DirPermissions: 0755,
	}
}

// Slot implements storage.Slot on a single "slots" table.
type Slot struct {
	db   *sql.DB
	path string
	opts Options
}

// New opens (creating if needed) the database at dbPath with default options.
func New(dbPath string) (*Slot, error) {
	return NewWithOptions(dbPath, DefaultOptions())
}

// NewWithOptions opens the database at dbPath and runs migrations.
func NewWithOptions(dbPath string, opts Options) (*Slot, error) {
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), opts.DirPermissions); err != nil {
			return nil, errors.NewDatabaseError("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	if dbPath == MemoryPath {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &Slot{db: db, path: dbPath, opts: opts}, nil
}

// Name returns the backend name.
func (s *Slot) Name() string {
	return "sqlite"
}

// Path returns the database file path.
func (s *Slot) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Slot) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Slot) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM slots WHERE key = ?`
	return QueryValue(ctx, s.db, s.opts.QueryTimeout, query, key)
}

// Set upserts value under key. The single statement replaces the row atomically.
func (s *Slot) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO slots (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if err := ExecuteWithTimeout(ctx, s.db, s.opts.WriteTimeout, "write slot", query, key, value, FormatTimeForDB(time.Now())); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Slot) Remove(ctx context.Context, key string) error {
	query := `DELETE FROM slots WHERE key = ?`
	if err := ExecuteWithTimeout(ctx, s.db, s.opts.WriteTimeout, "delete slot", query, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

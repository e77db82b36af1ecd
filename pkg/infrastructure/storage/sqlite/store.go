// Package sqlite implements a document backend on a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/vsinha/shoplist/pkg/infrastructure/storage/core"
)

// Store keeps each document as the payload of a row keyed by bucket.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (and creates if needed) the database at path.
func New(path string) (*Store, error) {
	if path == "" {
		path = "shoplist.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state(bucket, payload) VALUES(?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		key, data)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

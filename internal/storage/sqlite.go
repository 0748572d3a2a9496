package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

func NewSQLiteBackend(ctx context.Context, path string) (*SQLBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps writes ordered on the database file.
	db.SetMaxOpenConns(1)

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS kv_store (
    k     TEXT PRIMARY KEY,
    value BLOB NOT NULL
)`
	const upsertQuery = `
INSERT INTO kv_store (k, value)
VALUES (?, ?)
ON CONFLICT (k) DO UPDATE SET value = excluded.value
`
	backend, err := newSQLBackend(ctx, db, createTableQuery, upsertQuery)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

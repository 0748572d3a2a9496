package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

func NewMySQLBackend(ctx context.Context, dsn string) (*SQLBackend, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	const createTableQuery = `
CREATE TABLE IF NOT EXISTS kv_store (
    k     VARCHAR(255) PRIMARY KEY,
    value LONGBLOB NOT NULL
)`
	const upsertQuery = `
INSERT INTO kv_store (k, value)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value)
`
	backend, err := newSQLBackend(ctx, db, createTableQuery, upsertQuery)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return backend, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLBackend stores values in a kv_store table through database/sql.
// The dialect only differs in the DDL and the upsert statement.
type SQLBackend struct {
	db          *sql.DB
	upsertQuery string
}

func newSQLBackend(ctx context.Context, db *sql.DB, createTableQuery, upsertQuery string) (*SQLBackend, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return &SQLBackend{
		db:          db,
		upsertQuery: upsertQuery,
	}, nil
}

func (b *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	const selectValueQuery = `
SELECT value
FROM kv_store
WHERE k = ?
`
	var value []byte
	err := b.db.QueryRowContext(ctx, selectValueQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select value: %w", err)
	}
	return value, nil
}

func (b *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, b.upsertQuery, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert value: %w", err)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

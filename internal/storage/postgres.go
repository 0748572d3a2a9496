package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createPostgresTableQuery = `
CREATE TABLE IF NOT EXISTS kv_store (
    k     TEXT PRIMARY KEY,
    value BYTEA NOT NULL
)`

// PostgresBackend borrows the pool; closing the pool is up to the caller.
type PostgresBackend struct {
	pgPool *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, pgPool *pgxpool.Pool) (*PostgresBackend, error) {
	b := &PostgresBackend{pgPool: pgPool}
	if err := b.migrate(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	const selectValueQuery = `
SELECT value
FROM kv_store
WHERE k = $1
`
	var value []byte
	err := b.pgPool.QueryRow(
		ctx,
		selectValueQuery,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to select value: %w", err)
	}
	return value, nil
}

func (b *PostgresBackend) Set(ctx context.Context, key string, value []byte) error {
	err := b.upsert(ctx, key, value)
	if err != nil && isUndefinedTable(err) {
		if err = b.migrate(ctx); err != nil {
			return err
		}
		err = b.upsert(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert value: %w", err)
	}
	return nil
}

func (b *PostgresBackend) upsert(ctx context.Context, key string, value []byte) error {
	const upsertQuery = `
INSERT INTO kv_store (k,
                      value)
VALUES ($1, $2)
ON CONFLICT (k) DO UPDATE SET value = excluded.value
`
	_, err := b.pgPool.Exec(
		ctx,
		upsertQuery,
		key,
		value,
	)
	return err
}

func (b *PostgresBackend) migrate(ctx context.Context) error {
	_, err := b.pgPool.Exec(ctx, createPostgresTableQuery)
	if err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}

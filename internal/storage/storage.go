package storage

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
)

// Backend is a synchronous key-value store holding one serialized
// value per key.
type Backend interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
}

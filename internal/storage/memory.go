package storage

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
	quota  int
}

// NewMemoryBackend returns an empty in-memory backend. A positive quota
// limits the total number of bytes held across all keys.
func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{
		values: make(map[string][]byte),
		quota:  quota,
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.quota > 0 {
		used := len(key) + len(value)
		for k, v := range b.values {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used > b.quota {
			return ErrQuotaExceeded
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	b.values[key] = stored
	return nil
}

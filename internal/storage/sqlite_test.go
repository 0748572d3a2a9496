package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.db")
	backend, err := NewSQLiteBackend(context.Background(), path)
	if err != nil {
		t.Fatalf("new sqlite backend: %v", err)
	}
	defer backend.Close()

	testBackend(t, backend)
}

func TestSQLiteBackendSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo.db")

	backend, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("new sqlite backend: %v", err)
	}
	if err = backend.Set(ctx, "todo-app-data", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	backend.Close()

	reopened, err := NewSQLiteBackend(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "todo-app-data")
	if err != nil || string(got) != `[]` {
		t.Fatalf("expected persisted value, got %q (%v)", got, err)
	}
}

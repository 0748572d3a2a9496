package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend(t *testing.T) {
	backend, err := NewFileBackend(filepath.Join(t.TempDir(), "nested", "dir"))
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	testBackend(t, backend)
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err = backend.Set(context.Background(), "todo-app-data", []byte("[]")); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "todo-app-data.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected dir contents: %v", names)
	}
}

func TestFileBackendRejectsPathKeys(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("new file backend: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		if err = backend.Set(context.Background(), key, []byte("[]")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

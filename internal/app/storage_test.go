package app

import (
	"context"
	"io"
	"testing"

	"github.com/adanyl0v/go-todo-local/internal/config"
	"github.com/adanyl0v/go-todo-local/internal/services"
)

func TestInitTaskStoreReloadsFileStorage(t *testing.T) {
	InitDefaultLogger(io.Discard)
	config.SetGlobal(&config.Config{
		Env: config.EnvProd,
		Storage: config.StorageConfig{
			Driver:  config.DriverFile,
			Key:     "todo-app-data",
			FileDir: t.TempDir(),
		},
	})

	ctx := context.Background()
	if err := InitTaskStore(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := TaskStore().Add(ctx, services.AddTaskParams{Title: "survives restart"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	CloseStorage()

	if err := InitTaskStore(ctx); err != nil {
		t.Fatalf("reinit: %v", err)
	}
	defer CloseStorage()

	tasks := TaskStore().Snapshot().Tasks
	if len(tasks) != 1 || tasks[0].Title != "survives restart" {
		t.Fatalf("unexpected tasks after reload: %+v", tasks)
	}
}

func TestInitTaskStoreRejectsUnknownDriver(t *testing.T) {
	InitDefaultLogger(io.Discard)
	config.SetGlobal(&config.Config{
		Env:     config.EnvProd,
		Storage: config.StorageConfig{Driver: "redis", Key: "todo-app-data"},
	})

	if err := InitTaskStore(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestInitApplicationLoggerRejectsUnknownEnv(t *testing.T) {
	InitDefaultLogger(io.Discard)
	if err := InitApplicationLogger(&config.Config{Env: "staging"}); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

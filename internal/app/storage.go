package app

import (
	"context"
	"fmt"

	"github.com/adanyl0v/go-todo-local/internal/config"
	"github.com/adanyl0v/go-todo-local/internal/services"
	"github.com/adanyl0v/go-todo-local/internal/storage"
)

var (
	globalTaskStore    services.TaskStore
	globalStorageClose = func() {}
)

func TaskStore() services.TaskStore {
	return globalTaskStore
}

func MustInitTaskStore() {
	err := InitTaskStore(context.Background())
	if err != nil {
		panic(err)
	}
}

// InitTaskStore opens the configured backend and loads the persisted
// tasks. A failed load is logged and the store starts empty.
func InitTaskStore(ctx context.Context) error {
	cfg := config.Global().Storage

	backend, closeFn, err := openBackend(ctx, config.Global())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Driver).
			Msg("failed to open storage")
		return err
	}
	globalStorageClose = closeFn
	globalLogger.Debug().
		Str("driver", cfg.Driver).
		Msg("opened storage")

	logger := globalLogger.With().
		Str("component", "task_store").
		Logger()
	globalTaskStore = services.NewTaskStore(logger, backend, cfg.Key, services.SystemClock)

	err = globalTaskStore.Initialize(ctx)
	if err != nil {
		globalLogger.Warn().
			Err(err).
			Msg("starting with an empty task list")
	}
	return nil
}

func CloseStorage() {
	globalStorageClose()
	globalLogger.Debug().Msg("closed storage")
}

func openBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func(), error) {
	noop := func() {}
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return storage.NewMemoryBackend(cfg.Storage.MemoryQuota), noop, nil
	case config.DriverFile:
		backend, err := storage.NewFileBackend(cfg.Storage.FileDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil
	case config.DriverSQLite:
		backend, err := storage.NewSQLiteBackend(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() { _ = backend.Close() }, nil
	case config.DriverMySQL:
		backend, err := storage.NewMySQLBackend(ctx, cfg.Storage.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return backend, func() { _ = backend.Close() }, nil
	case config.DriverPostgres:
		pool, err := connectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		backend, err := storage.NewPostgresBackend(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, func() {
			pool.Close()
			globalLogger.Info().Msg("disconnected from postgres")
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

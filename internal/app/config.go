package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/go-todo-local/internal/config"
)

func MustReadEnv() {
	err := ReadEnv()
	if err != nil {
		panic(err)
	}
}

func ReadEnv() error {
	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read env")
		return err
	}
	globalLogger.Debug().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("read env")

	config.SetGlobal(cfg)
	return nil
}

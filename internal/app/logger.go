package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-local/internal/config"
)

var (
	globalLogger    zerolog.Logger
	globalLogOutput io.Writer = os.Stdout
)

func Logger() zerolog.Logger {
	return globalLogger
}

// InitDefaultLogger sets up the JSON logger used until the config is read.
func InitDefaultLogger(w io.Writer) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	globalLogOutput = w
	globalLogger = zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()

	globalLogger.Debug().Msg("initialized default logger")
}

func MustInitApplicationLogger() {
	err := InitApplicationLogger(config.Global())
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to initialize application logger")
		panic(err)
	}
}

func InitApplicationLogger(cfg *config.Config) error {
	w := globalLogOutput
	switch cfg.Env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = globalLogOutput
		w = consoleWriter
	default:
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	globalLogger = globalLogger.Output(w)
	globalLogger.Debug().Msg("initialized application logger")
	return nil
}

// SetLogLevel overrides the level picked from the env.
func SetLogLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

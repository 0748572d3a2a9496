package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	switch cfg.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", cfg.Env)
	}

	switch cfg.Storage.Driver {
	case DriverMemory, DriverFile, DriverSQLite:
	case DriverMySQL:
		if cfg.Storage.MySQLDSN == "" {
			return fmt.Errorf("MYSQL_DSN is required for the %s driver", DriverMySQL)
		}
	case DriverPostgres:
		if cfg.Postgres.Username == "" || cfg.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_USERNAME and POSTGRES_DATABASE are required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}

	if cfg.Storage.Key == "" {
		return fmt.Errorf("STORAGE_KEY must not be empty")
	}
	return nil
}

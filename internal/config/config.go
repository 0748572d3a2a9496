package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var globalConfig *Config

func Global() *Config {
	return globalConfig
}

func SetGlobal(cfg *Config) {
	globalConfig = cfg
}

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	HTTP     HTTPConfig
	Storage  StorageConfig
	Postgres PostgresConfig
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"127.0.0.1"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" env-default:"file"`
	Key         string `env:"STORAGE_KEY" env-default:"todo-app-data"`
	FileDir     string `env:"STORAGE_FILE_DIR" env-default:"~/.local/share/todo"`
	MemoryQuota int    `env:"STORAGE_MEMORY_QUOTA" env-default:"5242880"`
	SQLitePath  string `env:"SQLITE_PATH" env-default:"todo.db"`
	MySQLDSN    string `env:"MYSQL_DSN"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432"`
	Username       string        `env:"POSTGRES_USERNAME"`
	Password       string        `env:"POSTGRES_PASSWORD"`
	Database       string        `env:"POSTGRES_DATABASE"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s"`
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// sqlite is the default so the simulator runs with zero setup,
	// postgres is available for a shared deployment.
	DBDriver   string `env:"DB_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"trading_competition.db"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5433"`
	DBUser     string `env:"DB_USER" envDefault:"trader"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"trading123"`
	DBName     string `env:"DB_NAME" envDefault:"trading_db"`

	// SessionSecret signs the session cookie. When empty the server
	// generates a random one, so sessions do not survive a restart.
	SessionSecret string `env:"SESSION_SECRET"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return cfg, fmt.Errorf("unknown DB_DRIVER %q (use %q or %q)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}
	return cfg, nil
}

// PostgresDSN builds the lib/pq connection string.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP HTTPConfig

	// DBPath locates the SQLite database file.
	DBPath string `env:"DB_PATH" envDefault:"./data/chamapool.db"`

	// JWTSecret signs session tokens. Must be a strong random string.
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`

	// TokenDuration is how long session tokens stay valid.
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`

	// RegistryOwner is the user ID allowed to pause group creation.
	RegistryOwner string `env:"REGISTRY_OWNER" envDefault:"owner"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" envDefault:""`
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

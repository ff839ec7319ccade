// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Backend names.
const (
	Memory   = "memory"
	Postgres = "postgres"
	Mongo    = "mongo"
)

// Config is the service configuration.
type Config struct {
	Addr    string `env:"TODO_ADDR"    envDefault:"127.0.0.1:3000"`
	Backend string `env:"TODO_BACKEND" envDefault:"postgres"`

	// PostgresURL and MongoURL fall back to the backends' own defaults when
	// empty.
	PostgresURL   string `env:"TODO_POSTGRES_URL"`
	PostgresTable string `env:"TODO_POSTGRES_TABLE" envDefault:"todos"`

	MongoURL        string `env:"TODO_MONGO_URL"`
	MongoDatabase   string `env:"TODO_MONGO_DATABASE"   envDefault:"todo_api"`
	MongoCollection string `env:"TODO_MONGO_COLLECTION" envDefault:"todos"`

	// NATSURL enables change notifications when set.
	NATSURL           string `env:"TODO_NATS_URL"`
	NATSSubjectPrefix string `env:"TODO_NATS_SUBJECT_PREFIX"`

	LogLevel string `env:"TODO_LOG_LEVEL" envDefault:"debug"`
}

// Load loads the configuration from environment variables. Load does not
// validate the configuration, because flags may still override it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configured backend is known.
func (cfg Config) Validate() error {
	switch strings.ToLower(cfg.Backend) {
	case Memory, Postgres, Mongo:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (expected %q, %q or %q)", cfg.Backend, Memory, Postgres, Mongo)
	}
}

// Notifications returns whether change notifications are enabled.
func (cfg Config) Notifications() bool {
	return strings.TrimSpace(cfg.NATSURL) != ""
}

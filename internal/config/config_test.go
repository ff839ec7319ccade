package config_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modernice/todoapi/internal/config"
)

func TestLoad_defaults(t *testing.T) {
	for _, key := range []string{
		"TODO_ADDR", "TODO_BACKEND", "TODO_POSTGRES_URL", "TODO_POSTGRES_TABLE",
		"TODO_MONGO_URL", "TODO_MONGO_DATABASE", "TODO_MONGO_COLLECTION",
		"TODO_NATS_URL", "TODO_NATS_SUBJECT_PREFIX", "TODO_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed with %q", err)
	}

	want := config.Config{
		Addr:            "127.0.0.1:3000",
		Backend:         config.Postgres,
		PostgresTable:   "todos",
		MongoDatabase:   "todo_api",
		MongoCollection: "todos",
		LogLevel:        "debug",
	}

	if !cmp.Equal(want, cfg) {
		t.Fatalf("Load() returned wrong config:\n%s", cmp.Diff(want, cfg))
	}

	if cfg.Notifications() {
		t.Fatalf("notifications should be disabled without a NATS url")
	}
}

func TestLoad_env(t *testing.T) {
	t.Setenv("TODO_ADDR", ":8080")
	t.Setenv("TODO_BACKEND", "mongo")
	t.Setenv("TODO_NATS_URL", "nats://localhost:4222")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() failed with %q", err)
	}

	if cfg.Addr != ":8080" {
		t.Fatalf("Addr should be %q; is %q", ":8080", cfg.Addr)
	}

	if cfg.Backend != config.Mongo {
		t.Fatalf("Backend should be %q; is %q", config.Mongo, cfg.Backend)
	}

	if !cfg.Notifications() {
		t.Fatalf("notifications should be enabled with a NATS url")
	}
}

func TestLoad_unknownBackend(t *testing.T) {
	t.Setenv("TODO_BACKEND", "redis")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() should not validate the backend; got %q", err)
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() should fail for an unknown backend")
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, backend := range []string{config.Memory, config.Postgres, config.Mongo, "Postgres", "MONGO"} {
		if err := (config.Config{Backend: backend}).Validate(); err != nil {
			t.Fatalf("Validate() failed for backend %q: %v", backend, err)
		}
	}
}

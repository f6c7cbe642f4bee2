package config_test

import (
	"testing"
	"time"

	"github.com/quizdeck/backend/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{
		"SERVER_ADDRESS", "SHUTDOWN_TIMEOUT", "DB_DRIVER", "DATABASE_PATH", "DATABASE_URL",
		"SESSION_BACKEND", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"SESSION_TTL", "SESSION_SWEEP_SCHEDULE", "COOKIE_SECURE",
	} {
		t.Setenv(k, "")
	}

	cfg := config.Load()

	if cfg.ServerAddress != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.ServerAddress)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.ShutdownTimeout)
	}
	if cfg.DBDriver != config.DriverSQLite || cfg.DatabasePath != "quiz.db" {
		t.Errorf("unexpected storage config: %+v", cfg)
	}
	if cfg.SessionBackend != config.BackendMemory || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("unexpected session config: %+v", cfg)
	}
	if cfg.SessionSweepSchedule != "@every 5m" {
		t.Errorf("unexpected sweep schedule %q", cfg.SessionSweepSchedule)
	}
	if cfg.CookieSecure {
		t.Error("expected insecure cookies by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := config.Load()

	if cfg.ServerAddress != ":9000" {
		t.Errorf("expected :9000, got %q", cfg.ServerAddress)
	}
	if cfg.DBDriver != config.DriverPostgres || cfg.DatabaseURL != "postgres://quiz@localhost/quiz" {
		t.Errorf("unexpected storage config: %+v", cfg)
	}
	if cfg.SessionBackend != config.BackendRedis || cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Errorf("unexpected redis config: %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || !cfg.CookieSecure {
		t.Errorf("unexpected session config: %+v", cfg)
	}
}

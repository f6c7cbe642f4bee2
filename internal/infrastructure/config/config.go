package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Durable storage
	DBDriver     string // "sqlite" or "postgres"
	DatabasePath string // sqlite file
	DatabaseURL  string // postgres DSN

	// Per-visitor quiz progress
	SessionBackend       string // "memory" or "redis"
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	SessionTTL           time.Duration
	SessionSweepSchedule string // cron spec, memory backend only

	CookieSecure bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddress:        getenvDefault("SERVER_ADDRESS", ":8080"),
		ShutdownTimeout:      getDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		DBDriver:             oneOf("DB_DRIVER", DriverSQLite, DriverSQLite, DriverPostgres),
		DatabasePath:         getenvDefault("DATABASE_PATH", "quiz.db"),
		SessionBackend:       oneOf("SESSION_BACKEND", BackendMemory, BackendMemory, BackendRedis),
		RedisPassword:        os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getIntDefault("REDIS_DB", 0),
		SessionTTL:           getDurationDefault("SESSION_TTL", 2*time.Hour),
		SessionSweepSchedule: getenvDefault("SESSION_SWEEP_SCHEDULE", "@every 5m"),
		CookieSecure:         getBoolDefault("COOKIE_SECURE", false),
	}

	if cfg.DBDriver == DriverPostgres {
		cfg.DatabaseURL = mustGetenv("DATABASE_URL")
	}
	if cfg.SessionBackend == BackendRedis {
		cfg.RedisAddr = mustGetenv("REDIS_ADDR")
	}
	return cfg
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getIntDefault(k string, fallback int) int {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid integer: %v", k, v, err)
	}
	return n
}

func getBoolDefault(k string, fallback bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid boolean: %v", k, v, err)
	}
	return b
}

func oneOf(k, fallback string, allowed ...string) string {
	v := getenvDefault(k, fallback)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Fatalf("config: %s=%q must be one of %v", k, v, allowed)
	return ""
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/quizdeck/backend/internal/api"
	"github.com/quizdeck/backend/internal/infrastructure/config"
	"github.com/quizdeck/backend/internal/service"
	"github.com/quizdeck/backend/internal/store"
	"github.com/quizdeck/backend/internal/visitor"
	"github.com/quizdeck/backend/internal/web"

	_ "github.com/quizdeck/backend/docs" // generated swagger docs
)

//go:generate swag init -d ../../ -g cmd/server/main.go -o ../../docs

// @title           Quizdeck API
// @version         1.0
// @description     Multiple-choice quiz practice: configure a quiz, answer questions, review results and statistics.

// @host      localhost:8080
// @BasePath  /
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.Open(cfg.DBDriver, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	visitors, cleanup, err := openVisitorStore(cfg, logger)
	if err != nil {
		logger.Error("failed to set up quiz progress store", "backend", cfg.SessionBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	views, err := web.New()
	if err != nil {
		logger.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	quizSvc := service.NewQuizService(db, visitors, logger, cfg.SessionTTL)
	handler := api.NewHandler(quizSvc, views, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()
	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → Visitor → mux ────────────
	logged := api.Logging(logger)(api.CORS(api.Visitor(cfg.CookieSecure)(mux)))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server",
		"address", cfg.ServerAddress,
		"db_driver", cfg.DBDriver,
		"session_backend", cfg.SessionBackend,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

// openVisitorStore builds the per-visitor progress store. The returned
// cleanup stops the sweeper or closes the redis client.
func openVisitorStore(cfg *config.Config, logger *slog.Logger) (visitor.Store, func(), error) {
	if cfg.SessionBackend == config.BackendRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		return visitor.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	}

	mem := visitor.NewMemoryStore()
	c := cron.New()
	if _, err := visitor.ScheduleSweep(c, cfg.SessionSweepSchedule, mem, logger); err != nil {
		return nil, nil, err
	}
	c.Start()
	return mem, func() { <-c.Stop().Done() }, nil
}

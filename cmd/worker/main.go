// Package main is the entry point for the StockPilot maintenance worker.
// It runs periodic housekeeping: expired refresh tokens and stale
// idempotency keys.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockpilot/internal/infrastructure/storage/postgres"
	"stockpilot/internal/infrastructure/storage/postgres/auth_repo"
	"stockpilot/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting stockpilot worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	worker := NewWorker(
		auth_repo.NewTokenRepo(txManager),
		postgres.NewIdempotencyStore(txManager, getEnvDuration("IDEMPOTENCY_TTL", 10*time.Minute)),
		getEnvDuration("CLEANUP_INTERVAL", time.Hour),
		log,
	)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// TokenCleaner removes expired and long-revoked refresh tokens.
type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// Worker runs periodic housekeeping tasks.
type Worker struct {
	tokens      TokenCleaner
	idempotency *postgres.IdempotencyStore
	interval    time.Duration
	log         *logger.Logger
}

// NewWorker creates a maintenance worker.
func NewWorker(tokens TokenCleaner, idempotency *postgres.IdempotencyStore, interval time.Duration, log *logger.Logger) *Worker {
	return &Worker{
		tokens:      tokens,
		idempotency: idempotency,
		interval:    interval,
		log:         log.WithComponent("worker"),
	}
}

// Run executes cleanup on the configured interval until ctx is done.
// One cycle runs immediately on start.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	if count, err := w.tokens.CleanupExpiredTokens(ctx); err != nil {
		w.log.Errorw("token cleanup failed", "error", err)
	} else if count > 0 {
		w.log.Infow("cleaned up refresh tokens", "count", count)
	}

	if count, err := w.idempotency.CleanupExpired(ctx); err != nil {
		w.log.Errorw("idempotency cleanup failed", "error", err)
	} else if count > 0 {
		w.log.Infow("cleaned up idempotency keys", "count", count)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

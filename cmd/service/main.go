// cmd/service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github-portfolio/internal/api"
	"github-portfolio/internal/config"
	"github-portfolio/internal/database"
	"github-portfolio/internal/github"
	"github-portfolio/internal/lock"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/portfolio"
	"github-portfolio/internal/syncer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application startup error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Initialize structured logger
	logLevel := new(slog.LevelVar)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 2. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")

	// 3. Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 4. Initialize database connection and run migrations
	dbpool, err := pgxpool.New(ctx, cfg.DBURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbpool.Close()
	logger.Info("Database connection established")

	if err := runMigrations(cfg.MigrationsPath, cfg.DBURL); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")

	// 5. Initialize application components
	metrics.MustRegister(prometheus.DefaultRegisterer)

	locker, closeLocker, err := newLocker(ctx, cfg.RedisAddr, logger)
	if err != nil {
		return err
	}
	defer closeLocker()

	ghConfig := github.Config{BaseURL: cfg.GithubAPIURL, Token: cfg.GithubToken, Timeout: cfg.GithubTimeout}
	publicClient, err := github.NewClient(ghConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	providerFactory := func(token string) (syncer.Provider, error) {
		accountConfig := ghConfig
		accountConfig.Token = token
		return github.NewClient(accountConfig, logger)
	}

	store := database.NewStore(dbpool)
	appSyncer := syncer.NewSyncer(store, providerFactory, locker, logger, syncer.Config{
		Interval:    cfg.SyncInterval,
		Concurrency: cfg.SyncConcurrency,
		LockTTL:     cfg.SyncLockTTL,
	})
	svc := portfolio.NewService(store, appSyncer, publicClient, logger)

	// 6. Start the syncer in a separate goroutine
	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		appSyncer.Start(ctx)
	}()

	// 7. Serve HTTP until a shutdown signal arrives
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			cancel()
			<-syncDone
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	cancel()
	<-syncDone
	logger.Info("Shutdown complete")

	return nil
}

// newLocker uses Redis when an address is configured so that several
// replicas exclude each other, and an in-process lock otherwise.
func newLocker(ctx context.Context, addr string, logger *slog.Logger) (lock.Locker, func(), error) {
	if addr == "" {
		logger.Info("REDIS_ADDR not set, using in-process sync locks")
		return lock.NewLocalLocker(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Redis connection established", "addr", addr)
	return lock.NewRedisLocker(client, "github-portfolio"), func() { _ = client.Close() }, nil
}

func runMigrations(sourceURL, dbURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func setLogLevel(level string, v *slog.LevelVar) {
	switch level {
	case "debug":
		v.Set(slog.LevelDebug)
	case "warn":
		v.Set(slog.LevelWarn)
	case "error":
		v.Set(slog.LevelError)
	default:
		v.Set(slog.LevelInfo)
	}
}

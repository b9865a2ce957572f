package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"benefits/internal/amqp"
	"benefits/internal/config"
	apphttp "benefits/internal/http"
	applog "benefits/internal/log"
	"benefits/internal/overrides"
	"benefits/internal/services"
	"benefits/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.SQLiteDBPath, "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	var store overrides.Store
	switch cfg.OverrideBackend {
	case "sqlite":
		store = overrides.NewSQLiteStore(repo.DB())
	case "file":
		store = overrides.NewFileStore(cfg.OverrideFilePath)
	case "memory":
		store = overrides.NewMemoryStore()
	default:
		logger.Error("unknown override backend", "backend", cfg.OverrideBackend)
		os.Exit(1)
	}

	resolver := services.NewResolver(repo, store)
	summary := services.NewSummaryService(repo)

	var publisher apphttp.IngestPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("failed to connect to AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
	}

	srv := apphttp.NewServer(":"+cfg.Port, resolver, summary, repo, publisher, apphttp.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		ReadyCheck: func(ctx context.Context) error {
			return repo.DB().PingContext(ctx)
		},
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", "error", err)
		}
		cancel()
	}()

	logger.Info("starting server", "port", cfg.Port, "override_backend", cfg.OverrideBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped")
}

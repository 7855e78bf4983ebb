package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ledger/internal/amqp"
	"ledger/internal/analytics"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/store"
	"ledger/internal/store/memory"
	"ledger/internal/store/sqlite"
	"ledger/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	decimal.MarshalJSONWithoutQuotes = true

	logger.Info("Starting ledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var lister store.EntryLister
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.NewRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		lister = repo
	default:
		st, err := memory.NewFromFile(cfg.SeedFile)
		if err != nil {
			logger.Error("Failed to load seed file", "error", err, "path", cfg.SeedFile)
			os.Exit(1)
		}
		lister = st
	}

	// Without AMQP the worker still produces periodic digests; it just never
	// reacts to mutations as they happen.
	var consume func(context.Context, func(*amqp.EntryEvent) error) error
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		consume = client.ConsumeEntryEvents
		logger.Info("AMQP consumption enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, running ticker only")
	}

	digestWorker := worker.NewDigestWorker(lister, analytics.Timeframe(cfg.DigestTimeframe))

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if err := digestWorker.Run(ctx, cfg.DigestInterval, consume); err != nil && err != context.Canceled {
		logger.Error("Digest worker failed", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment to finish.
	time.Sleep(100 * time.Millisecond)
	logger.Info("Worker stopped gracefully")
}

// The recurring-worker keeps the current month materialized for every
// active company without waiting for someone to open a statement.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/amqp"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/config"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/log"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/services"
	"github.com/gabrielbruno2012-cpu/Portal-financeiro/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	materializer := services.NewMaterializer(repo, events, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("Materializer configured",
		"interval", cfg.MaterializeInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	ticker := time.NewTicker(cfg.MaterializeInterval)
	defer ticker.Stop()

	runSweep := func(now time.Time) {
		created, err := materializer.EnsureGeneratedAll(ctx, now.Year(), int(now.Month()))
		if err != nil {
			logger.Error("Materialization sweep failed", log.FieldError, err)
			return
		}
		logger.Info("Materialization sweep complete", log.FieldCreatedCount, created)
	}

	// Sweep once on startup so a restart never leaves the month half done.
	runSweep(time.Now())

	// Ledger activity for a company triggers an immediate idempotent
	// materialization instead of waiting for the next tick.
	if events != nil {
		go func() {
			err := events.ConsumeLedgerEvents(ctx, func(ev amqp.LedgerEvent) error {
				if ev.CompanyID <= 0 || ev.Event == amqp.EventEntryMaterialized {
					return nil
				}
				now := time.Now()
				_, err := materializer.EnsureGenerated(ctx, ev.CompanyID, now.Year(), int(now.Month()))
				return err
			})
			if err != nil && ctx.Err() == nil {
				logger.Warn("Event consumption stopped", log.FieldError, err)
			}
		}()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				runSweep(now)
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
	}

	logger.Info("Recurring-worker stopped")
}

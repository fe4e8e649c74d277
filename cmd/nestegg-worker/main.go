package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nestegg/internal/amqp"
	"nestegg/internal/config"
	applog "nestegg/internal/log"
	"nestegg/internal/services"
	"nestegg/internal/storage"
	"nestegg/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting nestegg-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The worker publishes to the ready queue and consumes from the
	// request queue on the same exchange.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPReadyQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	consumeClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRequestQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP consumer", "error", err)
		os.Exit(1)
	}
	defer consumeClient.Close()

	service := services.NewSimulationService(repo, amqpClient, cfg.SnapshotHorizonYears)
	snapshotWorker := worker.NewSnapshotWorker(service)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// On startup, recompute snapshots that might have been missed
	logger.Info("Performing startup snapshot sweep...")
	if err := snapshotWorker.RunSweep(ctx); err != nil {
		logger.Error("Startup sweep failed", "error", err)
		// Don't exit - continue with normal operation
	}

	// Start consuming snapshot requests
	go func() {
		handler := func(msg *amqp.SnapshotRequestMessage) error {
			return snapshotWorker.HandleSnapshotRequest(ctx, msg)
		}
		if err := consumeClient.ConsumeSnapshotRequests(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Nightly sweep keeps snapshots fresh for users who never request one
	if err := snapshotWorker.StartSchedule(ctx, cfg.SnapshotCron); err != nil {
		logger.Error("Failed to start snapshot schedule", "error", err, "spec", cfg.SnapshotCron)
		os.Exit(1)
	}
	defer snapshotWorker.StopSchedule()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the worker time to finish the current snapshot
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

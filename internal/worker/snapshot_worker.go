// Package worker recomputes projection snapshots in the background: on
// demand from the AMQP request queue, and nightly for every user with a
// profile.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"nestegg/internal/amqp"
	"nestegg/internal/services"
)

// SnapshotWorker handles snapshot recompute requests and the nightly
// full sweep.
type SnapshotWorker struct {
	service *services.SimulationService
	cron    *cron.Cron
}

func NewSnapshotWorker(service *services.SimulationService) *SnapshotWorker {
	return &SnapshotWorker{service: service}
}

// HandleSnapshotRequest recomputes one user's snapshot from a queue
// message.
func (w *SnapshotWorker) HandleSnapshotRequest(ctx context.Context, msg *amqp.SnapshotRequestMessage) error {
	slog.InfoContext(ctx, "Processing snapshot request",
		"user_id", msg.UserID,
		"horizon_years", msg.HorizonYears)

	if err := w.service.RunSnapshot(ctx, msg.UserID); err != nil {
		return fmt.Errorf("run snapshot for %s: %w", msg.UserID, err)
	}
	return nil
}

// RunSweep recomputes snapshots for every user with a profile. Failures
// are logged per user so one broken profile does not stall the sweep.
func (w *SnapshotWorker) RunSweep(ctx context.Context) error {
	users, err := w.service.ListActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("list active users: %w", err)
	}

	slog.InfoContext(ctx, "Starting snapshot sweep", "users", len(users))

	successCount := 0
	errorCount := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.service.RunSnapshot(ctx, userID); err != nil {
			slog.ErrorContext(ctx, "Failed to recompute snapshot",
				"user_id", userID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Snapshot sweep completed",
		"total", len(users),
		"succeeded", successCount,
		"errors", errorCount)
	return nil
}

// StartSchedule registers the nightly sweep on the given cron spec and
// starts the scheduler.
func (w *SnapshotWorker) StartSchedule(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if err := w.RunSweep(ctx); err != nil {
			slog.ErrorContext(ctx, "Scheduled snapshot sweep failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule snapshot sweep %q: %w", spec, err)
	}

	c.Start()
	w.cron = c
	slog.InfoContext(ctx, "Snapshot sweep scheduled", "spec", spec)
	return nil
}

// StopSchedule stops the scheduler and waits for a running sweep.
func (w *SnapshotWorker) StopSchedule() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

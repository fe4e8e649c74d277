// Package services orchestrates projections and spending analysis over
// the SQLite store and the AMQP snapshot queue.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"nestegg/internal/amqp"
	"nestegg/internal/analyzer"
	"nestegg/internal/core"
	"nestegg/internal/goals"
	applog "nestegg/internal/log"
	"nestegg/internal/simulation"
	"nestegg/internal/storage"
)

// SimulationService assembles projection inputs from stored records and
// keeps per-user snapshots current.
type SimulationService struct {
	storage      *storage.SQLiteRepository
	amqpClient   *amqp.Client
	horizonYears int
	log          *applog.StructuredLogger
}

func NewSimulationService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, horizonYears int) *SimulationService {
	if horizonYears <= 0 || horizonYears > core.MaxSimulationYears {
		horizonYears = 30
	}
	return &SimulationService{
		storage:      storage,
		amqpClient:   amqpClient,
		horizonYears: horizonYears,
		log:          applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentSimulation})),
	}
}

// BuildInput assembles a simulation input for a user: profile figures,
// holdings folded into the asset breakdown, dated goals as life events,
// and the neutral economic preset for the rates.
func (s *SimulationService) BuildInput(ctx context.Context, userID string) (core.SimulationInput, error) {
	profile, err := s.storage.GetProfile(ctx, userID)
	if err != nil {
		return core.SimulationInput{}, fmt.Errorf("load profile: %w", err)
	}

	assets, err := s.storage.ListAssets(ctx, userID)
	if err != nil {
		return core.SimulationInput{}, fmt.Errorf("load assets: %w", err)
	}

	userGoals, err := s.storage.ListGoals(ctx, userID)
	if err != nil {
		return core.SimulationInput{}, fmt.Errorf("load goals: %w", err)
	}

	savings := float64(profile.MonthlyIncome - profile.MonthlyExpense)

	// The current month's balance rides along as cash, matching what the
	// dashboard reports as today's position.
	breakdown := goals.BreakdownFromAssets(assets)
	breakdown.Cash += savings

	in := core.SimulationInput{
		Assets:         core.Breakdown(breakdown),
		MonthlyIncome:  float64(profile.MonthlyIncome),
		MonthlyExpense: float64(profile.MonthlyExpense),
		MonthlySavings: &savings,
		LifeEvents:     goals.LifeEventsFromGoals(userGoals),
		Years:          s.horizonYears,
		CurrentAge:     profile.CurrentAge,
		RetirementAge:  profile.RetirementAge,
		MonthlyPension: float64(profile.MonthlyPension),
	}
	simulation.EconomicScenarios[simulation.EconomicNeutral].Apply(&in)

	return in, nil
}

// RunSnapshot recomputes a user's projection, stores it, and announces
// the fresh snapshot. A failed announcement is logged, not returned: the
// snapshot is already durable.
func (s *SimulationService) RunSnapshot(ctx context.Context, userID string) error {
	in, err := s.BuildInput(ctx, userID)
	if err != nil {
		return fmt.Errorf("build input for %s: %w", userID, err)
	}

	result, err := simulation.RunFull(in, simulation.DefaultScenarios, simulation.Options{})
	if err != nil {
		return fmt.Errorf("run simulation for %s: %w", userID, err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.storage.SaveSnapshot(ctx, userID, s.horizonYears, payload); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.log.LogSimulationRun(ctx, userID, s.horizonYears, result.Baseline.FinalNetWorth)

	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping snapshot announcement")
		return nil
	}
	if err := s.amqpClient.PublishSnapshotReady(ctx, userID, result.Baseline.FinalNetWorth); err != nil {
		slog.ErrorContext(ctx, "Failed to announce snapshot",
			"user_id", userID, "error", err)
	}

	return nil
}

// RequestSnapshot enqueues an async recompute for one user.
func (s *SimulationService) RequestSnapshot(ctx context.Context, userID string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping snapshot request")
		return nil
	}
	return s.amqpClient.PublishSnapshotRequest(ctx, userID, s.horizonYears)
}

// LatestSnapshot returns a user's newest stored projection.
func (s *SimulationService) LatestSnapshot(ctx context.Context, userID string) (core.SimulationResult, time.Time, error) {
	payload, at, err := s.storage.LatestSnapshot(ctx, userID)
	if err != nil {
		return core.SimulationResult{}, time.Time{}, err
	}

	var result core.SimulationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return core.SimulationResult{}, time.Time{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return result, at, nil
}

// AnalyzeSpending runs the spending analyzer over a user's recent
// transactions.
func (s *SimulationService) AnalyzeSpending(ctx context.Context, userID string, lookbackMonths int, asOf time.Time) (core.SpendingAnalysis, error) {
	if lookbackMonths <= 0 {
		lookbackMonths = analyzer.DefaultLookbackMonths
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	// First day of the analysis window, built from the computed month so
	// a month-end asOf cannot shift the fetch boundary.
	since := time.Date(asOf.Year(), asOf.Month()-time.Month(lookbackMonths), 1, 0, 0, 0, 0, asOf.Location())
	transactions, err := s.storage.ListTransactions(ctx, userID, since)
	if err != nil {
		return core.SpendingAnalysis{}, fmt.Errorf("load transactions: %w", err)
	}

	return analyzer.Analyze(transactions, lookbackMonths, asOf), nil
}

// ListActiveUsers exposes the nightly job's population.
func (s *SimulationService) ListActiveUsers(ctx context.Context) ([]string, error) {
	return s.storage.ListActiveUsers(ctx)
}

// Close closes both storage and AMQP connections.
func (s *SimulationService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close simulation service: %v", errs)
	}
	return nil
}

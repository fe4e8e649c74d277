package simulation

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"nestegg/internal/core"
)

// RunScenario applies the adjustment to the baseline input and re-runs the
// engine with the adjusted figures.
//
// Composition order is deliberate and preserved from the historical model:
// income multiplier, income change, expense multiplier, expense change;
// savings is then derived as adjusted income minus adjusted expense and
// only afterwards scaled and shifted by the savings deltas. The resulting
// savings figure is passed through on the input but the engine derives
// each month's savings itself, so savings-only adjustments do not alter
// the trajectory.
func RunScenario(in core.SimulationInput, adj core.ScenarioAdjustment, opts Options) (core.ScenarioResult, error) {
	adjustedIncome := in.MonthlyIncome
	adjustedExpense := in.MonthlyExpense

	if adj.IncomeMultiplier != 0 {
		adjustedIncome *= adj.IncomeMultiplier
	}
	if adj.MonthlyIncomeChange != 0 {
		adjustedIncome += adj.MonthlyIncomeChange
	}
	if adj.ExpenseMultiplier != 0 {
		adjustedExpense *= adj.ExpenseMultiplier
	}
	if adj.MonthlyExpenseChange != 0 {
		adjustedExpense += adj.MonthlyExpenseChange
	}

	adjustedSavings := adjustedIncome - adjustedExpense
	if adj.SavingsMultiplier != 0 {
		adjustedSavings *= adj.SavingsMultiplier
	}
	if adj.MonthlySavingsChange != 0 {
		adjustedSavings += adj.MonthlySavingsChange
	}

	adjusted := in
	adjusted.MonthlyIncome = adjustedIncome
	adjusted.MonthlyExpense = adjustedExpense
	adjusted.MonthlySavings = &adjustedSavings

	projections, err := RunAt(adjusted, opts)
	if err != nil {
		return core.ScenarioResult{}, fmt.Errorf("run scenario %q: %w", adj.ID, err)
	}

	final := projections[len(projections)-1]
	return core.ScenarioResult{
		ID:                  adj.ID,
		Name:                adj.Name,
		Description:         adj.Description,
		Adjustment:          adj,
		FinalNetWorth:       final.NetWorth,
		NetWorthChange:      0, // back-filled against a baseline by RunFull
		EmergencyFundMonths: final.EmergencyFundMonths,
		Projections:         projections,
	}, nil
}

// RunFull runs the unadjusted baseline plus every comparison scenario and
// back-fills each scenario's net-worth delta against the baseline.
//
// Scenarios are evaluated concurrently; every run owns independent copies
// of its working state, so no locking is needed. The calendar anchor is
// resolved once so all runs share it.
func RunFull(in core.SimulationInput, adjustments []core.ScenarioAdjustment, opts Options) (core.SimulationResult, error) {
	if opts.AsOf.IsZero() {
		opts.AsOf = time.Now()
	}

	var baseline core.ScenarioResult
	scenarios := make([]core.ScenarioResult, len(adjustments))

	var g errgroup.Group
	g.Go(func() error {
		projections, err := RunAt(in, opts)
		if err != nil {
			return fmt.Errorf("run baseline: %w", err)
		}
		final := projections[len(projections)-1]
		baseline = core.ScenarioResult{
			ID:          "baseline",
			Name:        "현재 유지",
			Description: "현재 소비 패턴을 유지할 경우",
			Adjustment: core.ScenarioAdjustment{
				ID:          "baseline",
				Name:        "현재 유지",
				Description: "변경 없음",
			},
			FinalNetWorth:       final.NetWorth,
			EmergencyFundMonths: final.EmergencyFundMonths,
			Projections:         projections,
		}
		return nil
	})

	for i, adj := range adjustments {
		i, adj := i, adj
		g.Go(func() error {
			result, err := RunScenario(in, adj, opts)
			if err != nil {
				return err
			}
			scenarios[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return core.SimulationResult{}, err
	}

	for i := range scenarios {
		scenarios[i].NetWorthChange = scenarios[i].FinalNetWorth - baseline.FinalNetWorth
	}

	return core.SimulationResult{
		Input:     in,
		Baseline:  baseline,
		Scenarios: scenarios,
		CreatedAt: time.Now(),
	}, nil
}

// GenerateAggressiveSavingScenario packages an analyzer reduction plan as
// a scenario adjustment: the projected monthly expense shrinks by the
// plan's total, compounding forward through the run.
func GenerateAggressiveSavingScenario(analysis core.SpendingAnalysis, reductions []core.CategoryReduction, rationale string) core.ScenarioAdjustment {
	var totalReduction float64
	for _, r := range reductions {
		totalReduction += r.ReductionAmount
	}
	var reductionPct float64
	if analysis.AvgMonthlyExpense > 0 {
		reductionPct = totalReduction / analysis.AvgMonthlyExpense * 100
	}

	return core.ScenarioAdjustment{
		ID:   "aggressive-saving-custom",
		Name: "맞춤형 공격적 저축",
		Description: fmt.Sprintf("거래 내역 분석 결과, 월 %d만원(%.1f%%) 절감 가능",
			core.RoundWon(totalReduction/10_000), reductionPct),
		MonthlyExpenseChange: -totalReduction,
		CategoryReductions:   reductions,
		SavingsRationale:     rationale,
	}
}

// Package simulation implements the month-by-month future net-worth
// projection engine and the scenario orchestrator on top of it.
//
// The engine is a pure function of its input and options: no randomness,
// no I/O, and the calendar anchor is injected so runs are reproducible.
// Annual rates use the documented approximate model, converted once to
// exact monthly-compounding equivalents via (1+annual)^(1/12) - 1.
package simulation

import (
	"fmt"
	"math"
	"time"

	"nestegg/internal/core"
)

// InvalidSimulationInput reports a rejected input field.
type InvalidSimulationInput struct {
	Field string
	Cause error
}

func (e *InvalidSimulationInput) Error() string {
	return fmt.Sprintf("invalid simulation input: %s: %v", e.Field, e.Cause)
}

func (e *InvalidSimulationInput) Unwrap() error { return e.Cause }

// Options tunes a single engine run.
type Options struct {
	// AsOf anchors the calendar sequence; the zero value means "now".
	AsOf time.Time
	// Lenient skips the retirement-age ordering check. A retirement age
	// below the current age then makes every month retired from month 0,
	// matching the permissive historical behavior.
	Lenient bool
}

// Run projects the input over its horizon with default options.
func Run(in core.SimulationInput) ([]core.MonthlyProjection, error) {
	return RunAt(in, Options{})
}

// RunAt projects the input month by month, emitting years*12+1 snapshots
// (month indices 0 through years*12 inclusive).
func RunAt(in core.SimulationInput, opts Options) ([]core.MonthlyProjection, error) {
	if err := validate(in, opts.Lenient); err != nil {
		return nil, err
	}

	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	totalMonths := in.Years * 12

	monthlyInflation := monthlyRate(in.AnnualInflationRate)
	monthlyReturn := monthlyRate(in.AnnualInvestmentReturn)
	monthlyIncomeGrowth := monthlyRate(in.AnnualIncomeGrowth)
	monthlyDebtInterest := monthlyRate(in.AnnualDebtInterest)
	monthlyRealEstateGrowth := monthlyRate(in.AnnualRealEstateGrowth)

	// Working state, owned by this run. Mutated across iterations;
	// snapshots copy it by value.
	assets := in.Assets.Resolve()
	salary := in.MonthlyIncome
	pension := in.MonthlyPension
	expense := in.MonthlyExpense

	currentAge, retirementAge := in.Ages()
	monthsToRetirement := (retirementAge - currentAge) * 12

	projections := make([]core.MonthlyProjection, 0, totalMonths+1)

	for month := 0; month <= totalMonths; month++ {
		date := time.Date(asOf.Year(), asOf.Month()+time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		age := currentAge + month/12
		isRetired := month >= monthsToRetirement

		// Income source switches completely at the retirement boundary;
		// there is no partial-month blending.
		totalIncome := salary
		if isRetired {
			totalIncome = pension
		}

		var emergencyFundMonths float64
		if expense > 0 {
			emergencyFundMonths = assets.Cash / expense
		}

		savings := totalIncome - expense

		snapshot := core.MonthlyProjection{
			Month:               month,
			Date:                date,
			Age:                 age,
			IsRetired:           isRetired,
			NetWorth:            core.RoundWon(assets.NetWorth()),
			Assets:              assets,
			MonthlyIncome:       core.RoundWon(totalIncome),
			MonthlyExpense:      core.RoundWon(expense),
			MonthlySavings:      core.RoundWon(savings),
			EmergencyFundMonths: math.Round(emergencyFundMonths*10) / 10,
		}

		if month < totalMonths {
			snapshot.Events = applyLifeEvents(&assets, in.LifeEvents, date)

			// Growth and interest, independent, in fixed order.
			assets.Investment *= 1 + monthlyReturn
			assets.RealEstate *= 1 + monthlyRealEstateGrowth
			assets.Debt *= 1 + monthlyDebtInterest

			applySavings(&assets, savings)

			// Carry-forwards: salary keeps compounding even after
			// retirement (unused then), pension tracks inflation to
			// preserve purchasing power, expense inflates uniformly.
			salary *= 1 + monthlyIncomeGrowth
			pension *= 1 + monthlyInflation
			expense *= 1 + monthlyInflation
		}

		projections = append(projections, snapshot)
	}

	return projections, nil
}

func monthlyRate(annual float64) float64 {
	return math.Pow(1+annual, 1.0/12) - 1
}

// applyLifeEvents applies every event scheduled for date's calendar month,
// in list order, and returns their display labels. An asset acquisition
// first grows real estate by the full amount; the cost is then paid by
// draining cash, then investment, with any remainder borrowed as debt.
func applyLifeEvents(assets *core.AssetsBreakdown, events []core.LifeEvent, date time.Time) []string {
	var labels []string
	for _, e := range events {
		if e.Date.Year() != date.Year() || e.Date.Month() != date.Month() {
			continue
		}

		kindLabel := "지출"
		if e.Kind == core.EventAssetAcquisition {
			kindLabel = "자산취득"
			assets.RealEstate += e.Amount
		}
		labels = append(labels, fmt.Sprintf("%s (%s)", e.Name, kindLabel))

		remaining := e.Amount
		if assets.Cash >= remaining {
			assets.Cash -= remaining
			remaining = 0
		} else {
			remaining -= assets.Cash
			assets.Cash = 0
		}

		if remaining > 0 {
			if assets.Investment >= remaining {
				assets.Investment -= remaining
				remaining = 0
			} else {
				remaining -= assets.Investment
				assets.Investment = 0
			}
		}

		// Whatever cannot be covered becomes debt; the event is never
		// blocked.
		if remaining > 0 {
			assets.Debt += remaining
		}
	}
	return labels
}

// applySavings adds positive savings to cash. A negative figure is a
// deficit drained from cash, then investment; any shortfall left after
// both are exhausted is borrowed, so no bucket ever goes negative.
func applySavings(assets *core.AssetsBreakdown, savings float64) {
	if savings >= 0 {
		assets.Cash += savings
		return
	}

	deficit := -savings
	if assets.Cash >= deficit {
		assets.Cash -= deficit
		return
	}

	deficit -= assets.Cash
	assets.Cash = 0

	if assets.Investment >= deficit {
		assets.Investment -= deficit
		return
	}

	assets.Debt += deficit - assets.Investment
	assets.Investment = 0
}

func validate(in core.SimulationInput, lenient bool) error {
	if in.Years < 0 {
		return &InvalidSimulationInput{Field: "years", Cause: core.ErrNegativeYears}
	}
	if in.Years > core.MaxSimulationYears {
		return &InvalidSimulationInput{Field: "years", Cause: core.ErrHorizonTooLong}
	}
	if in.CurrentAge < 0 || in.RetirementAge < 0 {
		return &InvalidSimulationInput{Field: "age", Cause: core.ErrNegativeAge}
	}
	for _, v := range []float64{in.MonthlyIncome, in.MonthlyExpense, in.MonthlyPension} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidSimulationInput{Field: "monthly figures", Cause: core.ErrNonFiniteInput}
		}
	}
	if !lenient {
		current, retirement := in.Ages()
		if retirement < current {
			return &InvalidSimulationInput{Field: "retirementAge", Cause: core.ErrRetirementBeforeCurrentAge}
		}
	}
	return nil
}

// Package analyzer derives per-category spending statistics and savings
// reduction plans from raw transaction history.
//
// Analyze is a total function: degenerate input (no transactions, zero
// expense) yields a zero-valued analysis instead of an error, so callers
// never need a failure path before the orchestrator.
package analyzer

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"nestegg/internal/category"
	"nestegg/internal/core"
)

// DefaultLookbackMonths is the analysis window when the caller does not
// supply one. 0 means "this calendar month only".
const DefaultLookbackMonths = 3

// Thresholds for the fixed-expense classification.
const (
	// fixedPresenceRatio is the share of effective months a category must
	// appear in to qualify as a fixed expense.
	fixedPresenceRatio = 0.7
	// fixedMaxCV is the highest coefficient of variation of the monthly
	// sub-totals still considered "stable".
	fixedMaxCV = 0.3
)

// minReductionWon drops reduction proposals below this floor.
const minReductionWon = 1000

// Analyze aggregates the given transactions into per-category statistics
// over [start of (asOf - lookbackMonths), end of asOf's month].
//
// The averaging divisor is not lookbackMonths but the count of distinct
// calendar months actually present in the filtered data (minimum 1): a
// user with a single month of history sees monthly averages equal to that
// month's totals rather than a fraction of them.
func Analyze(transactions []core.Transaction, lookbackMonths int, asOf time.Time) core.SpendingAnalysis {
	// AddDate would normalize a month-end asOf forward (Mar 31 minus one
	// month becomes Mar 3), shifting the window start a month late.
	// Building the date from the computed month clamps instead.
	periodStart := time.Date(asOf.Year(), asOf.Month()-time.Month(lookbackMonths), 1, 0, 0, 0, 0, asOf.Location())
	periodEnd := endOfMonth(asOf)

	var filtered []core.Transaction
	for _, t := range transactions {
		if !category.IsExpense(t.Category) || t.Amount == 0 {
			continue
		}
		if t.Date.Before(periodStart) || t.Date.After(periodEnd) {
			continue
		}
		filtered = append(filtered, t)
	}

	if len(filtered) == 0 {
		return core.SpendingAnalysis{
			Categories:     []core.CategorySpending{},
			AnalyzedMonths: lookbackMonths,
			PeriodStart:    periodStart,
			PeriodEnd:      periodEnd,
		}
	}

	byCategory := make(map[category.Category][]core.Transaction)
	for _, t := range filtered {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}

	effectiveMonths := countDistinctMonths(filtered)
	if effectiveMonths < 1 {
		effectiveMonths = 1
	}
	if effectiveMonths != lookbackMonths {
		slog.Info("Analysis window differs from requested lookback",
			"requested_months", lookbackMonths,
			"effective_months", effectiveMonths)
	}

	var totalExpense int64
	for _, t := range filtered {
		totalExpense += absWon(t.Amount)
	}

	// Walk categories in display order so that equal totals render the
	// same way on every run; map iteration order would not. Unknown ids
	// count as expense and follow the known ones, sorted by id.
	ordered := make([]category.Category, 0, len(byCategory))
	for _, cat := range category.ExpenseCategories {
		if _, ok := byCategory[cat]; ok {
			ordered = append(ordered, cat)
		}
	}
	var unknown []category.Category
	for cat := range byCategory {
		if !category.Known(cat) {
			unknown = append(unknown, cat)
		}
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i] < unknown[j] })
	ordered = append(ordered, unknown...)

	categories := make([]core.CategorySpending, 0, len(ordered))
	var fixedExpenses, variableExpenses int64

	for _, cat := range ordered {
		txns := byCategory[cat]
		var categoryTotal int64
		for _, t := range txns {
			categoryTotal += absWon(t.Amount)
		}

		avgMonthly := float64(categoryTotal) / float64(effectiveMonths)
		percentage := float64(categoryTotal) / float64(totalExpense) * 100

		fixed := isFixedExpense(txns, effectiveMonths)
		potential := category.SavingsPotential(cat, percentage, fixed)

		if fixed {
			fixedExpenses += categoryTotal
		} else {
			variableExpenses += categoryTotal
		}

		categories = append(categories, core.CategorySpending{
			Category:         cat,
			CategoryName:     category.DisplayName(cat),
			TotalAmount:      categoryTotal,
			AvgMonthlyAmount: avgMonthly,
			TransactionCount: len(txns),
			Percentage:       percentage,
			IsFixed:          fixed,
			SavingsPotential: potential,
		})
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].TotalAmount > categories[j].TotalAmount
	})

	return core.SpendingAnalysis{
		TotalExpense:      totalExpense,
		AvgMonthlyExpense: float64(totalExpense) / float64(effectiveMonths),
		Categories:        categories,
		FixedExpenses:     fixedExpenses,
		VariableExpenses:  variableExpenses,
		AnalyzedMonths:    effectiveMonths,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
	}
}

// isFixedExpense classifies a category as a fixed (recurring) expense:
// transactions present in at least 70% of the effective months, with a
// coefficient of variation of the monthly sub-totals at or below 0.3.
func isFixedExpense(txns []core.Transaction, effectiveMonths int) bool {
	if len(txns) < 2 {
		return false
	}

	monthlyTotals := make(map[string]int64)
	for _, t := range txns {
		monthlyTotals[t.MonthKey()] += absWon(t.Amount)
	}

	if float64(len(monthlyTotals)) < float64(effectiveMonths)*fixedPresenceRatio {
		return false
	}

	var sum float64
	for _, v := range monthlyTotals {
		sum += float64(v)
	}
	mean := sum / float64(len(monthlyTotals))

	var variance float64
	for _, v := range monthlyTotals {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(monthlyTotals))

	cv := math.Sqrt(variance) / mean
	return cv <= fixedMaxCV
}

func countDistinctMonths(txns []core.Transaction) int {
	months := make(map[string]struct{})
	for _, t := range txns {
		months[t.MonthKey()] = struct{}{}
	}
	return len(months)
}

func absWon(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

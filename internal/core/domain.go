// Package core defines the domain types shared by the spending analyzer,
// the projection engine and the scenario orchestrator.
//
// Monetary values are Korean won. Store-facing records carry whole-won
// int64 amounts; the projection engine works in float64 internally so
// monthly compounding keeps its fractional carry, and rounds only in the
// emitted snapshots.
package core

import (
	"errors"
	"math"
	"time"

	"nestegg/internal/category"
)

// EventKind classifies a life event.
type EventKind string

const (
	// EventExpense is a one-time cash requirement.
	EventExpense EventKind = "expense"
	// EventAssetAcquisition additionally converts the amount into real
	// estate before the cost is paid.
	EventAssetAcquisition EventKind = "asset_acquisition"
)

// AssetsBreakdown splits net worth into four mutually exclusive buckets.
// No bucket ever goes negative during a projection step; deficits cascade
// cash -> investment -> debt, with debt as the terminal sink.
type AssetsBreakdown struct {
	Cash       float64 `json:"cash"`
	Investment float64 `json:"investment"`
	RealEstate float64 `json:"realEstate"`
	Debt       float64 `json:"debt"`
}

// NetWorth is cash + investment + realEstate - debt.
func (a AssetsBreakdown) NetWorth() float64 {
	return a.Cash + a.Investment + a.RealEstate - a.Debt
}

// LifeEvent is a scheduled one-time cash requirement, matched to a
// projection month by calendar year+month equality.
type LifeEvent struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Name   string    `json:"name"`
	Kind   EventKind `json:"kind"`
}

// InitialAssets is the starting position for a simulation: either a full
// four-bucket breakdown or a legacy single net-worth figure treated as all
// cash. The union is resolved once at the engine boundary.
type InitialAssets struct {
	breakdown *AssetsBreakdown
	cash      float64
}

// AllCash builds an initial position holding the whole amount as cash.
func AllCash(amount float64) InitialAssets {
	return InitialAssets{cash: amount}
}

// Breakdown builds an initial position from an explicit breakdown.
func Breakdown(b AssetsBreakdown) InitialAssets {
	return InitialAssets{breakdown: &b}
}

// Resolve returns the canonical breakdown, synthesizing an all-cash one
// for legacy single-figure inputs.
func (ia InitialAssets) Resolve() AssetsBreakdown {
	if ia.breakdown != nil {
		return *ia.breakdown
	}
	return AssetsBreakdown{Cash: ia.cash}
}

// Default ages applied when the caller supplies neither.
const (
	DefaultCurrentAge    = 35
	DefaultRetirementAge = 65
)

// MaxSimulationYears bounds the projection horizon so a pathological
// input cannot grow the emitted sequence without limit.
const MaxSimulationYears = 100

// SimulationInput is the complete parameter set for one engine run.
//
// MonthlySavings mirrors the historical input shape: the engine derives
// each month's savings from income and expense and does not read the
// field, but the scenario orchestrator still populates it. See
// ScenarioAdjustment.
type SimulationInput struct {
	Assets InitialAssets

	MonthlyIncome  float64
	MonthlyExpense float64
	MonthlySavings *float64

	LifeEvents []LifeEvent

	// Annual rate assumptions, as fractions (0.02 = 2%).
	AnnualInflationRate    float64
	AnnualInvestmentReturn float64
	AnnualIncomeGrowth     float64
	AnnualDebtInterest     float64
	AnnualRealEstateGrowth float64

	Years int

	CurrentAge     int
	RetirementAge  int
	MonthlyPension float64
}

// Ages returns the effective current and retirement ages, falling back to
// the defaults when both are unset.
func (in SimulationInput) Ages() (current, retirement int) {
	current, retirement = in.CurrentAge, in.RetirementAge
	if current == 0 && retirement == 0 {
		current, retirement = DefaultCurrentAge, DefaultRetirementAge
	}
	return current, retirement
}

// Sentinel causes for simulation input validation failures.
var (
	ErrNegativeYears              = errors.New("years must be non-negative")
	ErrHorizonTooLong             = errors.New("projection horizon exceeds the supported maximum")
	ErrNegativeAge                = errors.New("ages must be non-negative")
	ErrRetirementBeforeCurrentAge = errors.New("retirement age precedes current age")
	ErrNonFiniteInput             = errors.New("monetary inputs must be finite numbers")
)

// MonthlyProjection is one immutable snapshot per month index. Monetary
// fields are rounded to whole won; Assets carries the unrounded breakdown
// so consumers can inspect the buckets exactly as the engine carried them.
type MonthlyProjection struct {
	Month     int       `json:"month"`
	Date      time.Time `json:"date"`
	Age       int       `json:"age"`
	IsRetired bool      `json:"isRetired"`

	NetWorth int64           `json:"netWorth"`
	Assets   AssetsBreakdown `json:"assets"`

	MonthlyIncome  int64 `json:"monthlyIncome"`
	MonthlyExpense int64 `json:"monthlyExpense"`
	MonthlySavings int64 `json:"monthlySavings"`

	// EmergencyFundMonths is cash / monthly expense, rounded to one
	// decimal place; 0 when expense is 0.
	EmergencyFundMonths float64 `json:"emergencyFundMonths"`

	Events []string `json:"events,omitempty"`
}

// RoundWon rounds a float amount to whole won.
func RoundWon(v float64) int64 {
	return int64(math.Round(v))
}

// Difficulty grades how hard a proposed category reduction is to follow.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// CategorySpending is the per-category aggregate over an analyzed window.
type CategorySpending struct {
	Category         category.Category  `json:"categoryId"`
	CategoryName     string             `json:"categoryName"`
	TotalAmount      int64              `json:"totalAmount"`
	AvgMonthlyAmount float64            `json:"avgMonthlyAmount"`
	TransactionCount int                `json:"transactionCount"`
	Percentage       float64            `json:"percentage"`
	IsFixed          bool               `json:"isFixed"`
	SavingsPotential category.Potential `json:"savingsPotential"`
}

// CategoryReduction is a concrete reduction proposal for one category.
type CategoryReduction struct {
	Category            category.Category `json:"categoryId"`
	CategoryName        string            `json:"categoryName"`
	CurrentAmount       float64           `json:"currentAmount"`
	TargetAmount        float64           `json:"targetAmount"`
	ReductionAmount     float64           `json:"reductionAmount"`
	ReductionPercentage float64           `json:"reductionPercentage"`
	Difficulty          Difficulty        `json:"difficulty"`
	Tips                []string          `json:"tips"`
}

// SpendingAnalysis summarizes a transaction set over the analyzed window.
// Degenerate input yields the zero value with an empty category list.
type SpendingAnalysis struct {
	TotalExpense      int64              `json:"totalExpense"`
	AvgMonthlyExpense float64            `json:"avgMonthlyExpense"`
	Categories        []CategorySpending `json:"categories"`
	FixedExpenses     int64              `json:"fixedExpenses"`
	VariableExpenses  int64              `json:"variableExpenses"`
	AnalyzedMonths    int                `json:"analyzedMonths"`
	PeriodStart       time.Time          `json:"periodStart"`
	PeriodEnd         time.Time          `json:"periodEnd"`
}

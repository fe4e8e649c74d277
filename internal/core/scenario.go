package core

import "time"

// ScenarioAdjustment is a named bundle of deltas applied to the baseline
// input before a scenario run. Multipliers at 0 mean "unset" (no change),
// matching the historical input shape.
//
// Income and expense deltas compose first (multiplier, then additive
// change, income before expense); the savings multiplier and change apply
// afterwards to the derived income-expense figure. That order can leave
// the passed-through savings inconsistent with income minus expense and
// is preserved deliberately.
type ScenarioAdjustment struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	ExpenseMultiplier float64 `json:"expenseMultiplier,omitempty"`
	SavingsMultiplier float64 `json:"savingsMultiplier,omitempty"`
	IncomeMultiplier  float64 `json:"incomeMultiplier,omitempty"`

	MonthlyIncomeChange  float64 `json:"monthlyIncomeChange,omitempty"`
	MonthlyExpenseChange float64 `json:"monthlyExpenseChange,omitempty"`
	MonthlySavingsChange float64 `json:"monthlySavingsChange,omitempty"`

	CategoryReductions []CategoryReduction `json:"categoryReductions,omitempty"`
	SavingsRationale   string              `json:"savingsRationale,omitempty"`
	AIGenerated        bool                `json:"aiGenerated,omitempty"`
}

// ScenarioResult is one scenario's outcome. NetWorthChange is zero until
// the orchestrator back-fills it against a baseline.
type ScenarioResult struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	Adjustment ScenarioAdjustment `json:"adjustment"`

	FinalNetWorth       int64   `json:"finalNetWorth"`
	NetWorthChange      int64   `json:"netWorthChange"`
	EmergencyFundMonths float64 `json:"emergencyFundMonths"`

	Projections []MonthlyProjection `json:"projections"`
}

// SimulationResult bundles a baseline with its comparison scenarios.
type SimulationResult struct {
	Input     SimulationInput  `json:"-"`
	Baseline  ScenarioResult   `json:"baseline"`
	Scenarios []ScenarioResult `json:"scenarios"`
	CreatedAt time.Time        `json:"createdAt"`
}

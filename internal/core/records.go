package core

import (
	"errors"
	"strings"
	"time"

	"nestegg/internal/category"
)

// Store-facing records. Persistence itself is delegated to the record
// store; these types only describe its rows at the boundary.

// Transaction is one logged income or expense entry. Amount is signed
// whole won: expenses negative, income positive.
type Transaction struct {
	ID           string
	UserID       string
	Category     category.Category
	Amount       int64
	Memo         string
	Date         time.Time
	IsRecurring  bool
	RecurringDay int
}

// MonthKey returns the transaction's calendar month as "YYYY-MM", the key
// the analyzer groups by.
func (t Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}

// AssetType classifies a tracked asset.
type AssetType string

const (
	AssetSavings    AssetType = "savings"
	AssetInvestment AssetType = "investment"
	AssetRealEstate AssetType = "real_estate"
	AssetDebt       AssetType = "debt"
)

// Asset is one tracked holding.
type Asset struct {
	ID     string
	UserID string
	Type   AssetType
	Name   string
	Amount int64
}

// GoalType classifies a savings goal.
type GoalType string

const (
	GoalSavings       GoalType = "savings"
	GoalEmergency     GoalType = "emergency"
	GoalEmergencyFund GoalType = "emergency_fund"
	GoalInvestment    GoalType = "investment"
	// GoalSimulationTarget marks a pure what-if target; it never becomes
	// a life event.
	GoalSimulationTarget GoalType = "simulation_target"
)

// Goal is one savings goal.
type Goal struct {
	ID            string
	UserID        string
	Name          string
	Type          GoalType
	TargetAmount  int64
	CurrentAmount int64
	TargetDate    *time.Time
	CreatedAt     time.Time
}

// Profile holds the per-user figures the simulation input is seeded from.
type Profile struct {
	UserID         string
	MonthlyIncome  int64
	MonthlyExpense int64
	CurrentAge     int
	RetirementAge  int
	MonthlyPension int64
}

var (
	ErrEmptyUserID   = errors.New("empty user id")
	ErrEmptyGoalName = errors.New("empty goal name")
	ErrZeroAmount    = errors.New("amount cannot be zero")
)

// Validate checks a transaction before it is stored.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserID) == "" {
		return ErrEmptyUserID
	}
	if t.Amount == 0 {
		return ErrZeroAmount
	}
	if t.Date.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return nil
}

// Validate checks a goal before it is stored.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyGoalName
	}
	if g.TargetAmount <= 0 {
		return errors.New("target amount must be positive")
	}
	return nil
}

// Package category holds the static transaction-category taxonomy and the
// classification tables the spending analyzer builds on: display metadata,
// savings-potential rules, maximum reduction rates and saving tips.
//
// The tables are keyed by the Category enum so that adding a new category
// forces every table to be extended (enforced by the package tests).
package category

import "fmt"

// Category identifies a transaction category.
type Category string

// Expense categories.
const (
	Food          Category = "food"
	Transport     Category = "transport"
	Shopping      Category = "shopping"
	Entertainment Category = "entertainment"
	Health        Category = "health"
	Education     Category = "education"
	Housing       Category = "housing"
	Utilities     Category = "utilities"
	Other         Category = "other"
)

// Non-expense categories (savings, investments and income sources).
const (
	Savings          Category = "savings"
	Investment       Category = "investment"
	Salary           Category = "salary"
	InvestmentIncome Category = "investment_income"
	OtherIncome      Category = "other_income"
)

// Potential grades how compressible a category's spending is.
type Potential string

const (
	PotentialHigh   Potential = "high"
	PotentialMedium Potential = "medium"
	PotentialLow    Potential = "low"
)

// Rank orders potentials for sorting (higher compresses better).
func (p Potential) Rank() int {
	switch p {
	case PotentialHigh:
		return 3
	case PotentialMedium:
		return 2
	default:
		return 1
	}
}

// ExpenseCategories lists every expense category, in display order.
var ExpenseCategories = []Category{
	Food, Transport, Shopping, Entertainment, Health,
	Education, Housing, Utilities, Other,
}

var displayNames = map[Category]string{
	Food:             "식비",
	Transport:        "교통",
	Shopping:         "쇼핑",
	Entertainment:    "여가",
	Health:           "건강",
	Education:        "교육",
	Housing:          "주거",
	Utilities:        "공과금",
	Other:            "기타",
	Savings:          "저축",
	Investment:       "투자",
	Salary:           "급여",
	InvestmentIncome: "투자수익",
	OtherIncome:      "기타수입",
}

// nonExpense covers savings, investments and income sources. Everything
// else, including unknown ids, counts as expense for analysis purposes.
var nonExpense = map[Category]bool{
	Savings:          true,
	Investment:       true,
	Salary:           true,
	InvestmentIncome: true,
	OtherIncome:      true,
}

// DisplayName returns the human-readable name for a category.
// Unknown categories fall back to the generic "기타" label.
func DisplayName(c Category) string {
	if name, ok := displayNames[c]; ok {
		return name
	}
	return "기타"
}

// Known reports whether c is part of the taxonomy.
func Known(c Category) bool {
	_, ok := displayNames[c]
	return ok
}

// IsExpense reports whether transactions in c count as spending.
func IsExpense(c Category) bool {
	return !nonExpense[c]
}

// Parse validates a raw category id.
func Parse(s string) (Category, error) {
	c := Category(s)
	if !Known(c) {
		return "", fmt.Errorf("unknown category: %q", s)
	}
	return c, nil
}

// SavingsPotential grades a category given its share of total spending and
// whether it was classified as a fixed expense.
func SavingsPotential(c Category, percentage float64, fixed bool) Potential {
	// Fixed costs are hard to compress, housing and utilities hardest.
	if fixed {
		if c == Housing || c == Utilities {
			return PotentialLow
		}
		return PotentialMedium
	}

	switch c {
	case Food, Entertainment, Shopping:
		if percentage > 20 {
			return PotentialHigh
		}
		if percentage > 10 {
			return PotentialMedium
		}
	case Transport, Health, Education:
		if percentage > 15 {
			return PotentialMedium
		}
		return PotentialLow
	}

	return PotentialLow
}

// maxReductionRates caps, per category and potential grade, how much of the
// monthly average the reduction planner may cut.
var maxReductionRates = map[Category]map[Potential]float64{
	Food:          {PotentialHigh: 0.25, PotentialMedium: 0.15, PotentialLow: 0.10},
	Transport:     {PotentialHigh: 0.20, PotentialMedium: 0.10, PotentialLow: 0.05},
	Shopping:      {PotentialHigh: 0.40, PotentialMedium: 0.25, PotentialLow: 0.15},
	Entertainment: {PotentialHigh: 0.35, PotentialMedium: 0.20, PotentialLow: 0.10},
	Health:        {PotentialHigh: 0.15, PotentialMedium: 0.10, PotentialLow: 0.05},
	Education:     {PotentialHigh: 0.10, PotentialMedium: 0.05, PotentialLow: 0.0},
	Housing:       {PotentialHigh: 0.05, PotentialMedium: 0.03, PotentialLow: 0.0},
	Utilities:     {PotentialHigh: 0.10, PotentialMedium: 0.05, PotentialLow: 0.03},
	Other:         {PotentialHigh: 0.20, PotentialMedium: 0.10, PotentialLow: 0.05},
}

// defaultReductionRate applies to categories outside the rate table.
const defaultReductionRate = 0.10

// MaxReductionRate returns the reduction cap for a category at the given
// potential grade.
func MaxReductionRate(c Category, p Potential) float64 {
	if rates, ok := maxReductionRates[c]; ok {
		if r, ok := rates[p]; ok {
			return r
		}
	}
	return defaultReductionRate
}

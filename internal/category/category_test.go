package category

import "testing"

func TestTablesCoverEveryExpenseCategory(t *testing.T) {
	for _, c := range ExpenseCategories {
		if _, ok := displayNames[c]; !ok {
			t.Errorf("category %q missing from display name table", c)
		}
		if _, ok := maxReductionRates[c]; !ok {
			t.Errorf("category %q missing from reduction rate table", c)
		}
		if _, ok := savingTips[c]; !ok {
			t.Errorf("category %q missing from tip table", c)
		}
	}
}

func TestReductionRatesCoverEveryPotential(t *testing.T) {
	for c, rates := range maxReductionRates {
		for _, p := range []Potential{PotentialHigh, PotentialMedium, PotentialLow} {
			if _, ok := rates[p]; !ok {
				t.Errorf("category %q missing rate for potential %q", c, p)
			}
		}
	}
}

func TestIsExpense(t *testing.T) {
	tests := []struct {
		category Category
		want     bool
	}{
		{Food, true},
		{Housing, true},
		{Other, true},
		{Savings, false},
		{Investment, false},
		{Salary, false},
		{InvestmentIncome, false},
		{OtherIncome, false},
		{Category("pet_supplies"), true}, // unknown ids count as expense
	}

	for _, tt := range tests {
		if got := IsExpense(tt.category); got != tt.want {
			t.Errorf("IsExpense(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	if _, err := Parse("food"); err != nil {
		t.Errorf("Parse(food) unexpected error: %v", err)
	}
	if _, err := Parse("lottery"); err == nil {
		t.Error("Parse(lottery) expected error, got nil")
	}
}

func TestSavingsPotential(t *testing.T) {
	tests := []struct {
		name       string
		category   Category
		percentage float64
		fixed      bool
		want       Potential
	}{
		{"fixed housing", Housing, 30, true, PotentialLow},
		{"fixed utilities", Utilities, 5, true, PotentialLow},
		{"fixed food", Food, 25, true, PotentialMedium},
		{"variable food high share", Food, 25, false, PotentialHigh},
		{"variable food medium share", Food, 15, false, PotentialMedium},
		{"variable food low share", Food, 5, false, PotentialLow},
		{"variable shopping high share", Shopping, 21, false, PotentialHigh},
		{"variable transport above threshold", Transport, 16, false, PotentialMedium},
		{"variable transport below threshold", Transport, 10, false, PotentialLow},
		{"variable other", Other, 50, false, PotentialLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SavingsPotential(tt.category, tt.percentage, tt.fixed)
			if got != tt.want {
				t.Errorf("SavingsPotential(%q, %v, %v) = %q, want %q",
					tt.category, tt.percentage, tt.fixed, got, tt.want)
			}
		})
	}
}

func TestMaxReductionRate(t *testing.T) {
	if got := MaxReductionRate(Shopping, PotentialHigh); got != 0.40 {
		t.Errorf("MaxReductionRate(shopping, high) = %v, want 0.40", got)
	}
	if got := MaxReductionRate(Housing, PotentialLow); got != 0.0 {
		t.Errorf("MaxReductionRate(housing, low) = %v, want 0", got)
	}
	// Categories outside the table fall back to the default rate.
	if got := MaxReductionRate(Category("pet_supplies"), PotentialHigh); got != defaultReductionRate {
		t.Errorf("MaxReductionRate(unknown, high) = %v, want %v", got, defaultReductionRate)
	}
}

func TestSavingTips(t *testing.T) {
	if tips := SavingTips(Food, 3); len(tips) != 3 {
		t.Errorf("SavingTips(food, 3) returned %d tips", len(tips))
	}
	// Housing has only two tips; asking for more is capped.
	if tips := SavingTips(Housing, 4); len(tips) != 2 {
		t.Errorf("SavingTips(housing, 4) returned %d tips, want 2", len(tips))
	}
	if tips := SavingTips(Category("unknown"), 2); len(tips) != 2 {
		t.Errorf("SavingTips(unknown, 2) returned %d tips, want 2", len(tips))
	}
}

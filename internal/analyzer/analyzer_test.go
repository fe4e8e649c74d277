package analyzer

import (
	"strings"
	"testing"
	"time"

	"nestegg/internal/category"
	"nestegg/internal/core"
)

var asOf = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func tx(cat category.Category, amount int64, y int, m time.Month, d int) core.Transaction {
	return core.Transaction{
		UserID:   "u1",
		Category: cat,
		Amount:   amount,
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	got := Analyze(nil, 3, asOf)

	if got.TotalExpense != 0 || got.AvgMonthlyExpense != 0 {
		t.Errorf("empty input produced totals: %+v", got)
	}
	if got.Categories == nil || len(got.Categories) != 0 {
		t.Errorf("empty input should yield an empty (non-nil) category list, got %v", got.Categories)
	}
	if got.PeriodStart.IsZero() || got.PeriodEnd.IsZero() {
		t.Error("period bounds should still be set for empty input")
	}
}

func TestAnalyzeFiltersNonExpenseAndOutOfWindow(t *testing.T) {
	txns := []core.Transaction{
		tx(category.Food, -50_000, 2026, 8, 1),
		tx(category.Salary, 3_000_000, 2026, 8, 1),     // income, excluded
		tx(category.Savings, -500_000, 2026, 8, 2),     // savings transfer, excluded
		tx(category.Food, -30_000, 2026, 1, 10),        // before window
		tx(category.Shopping, 0, 2026, 8, 3),           // zero amount, excluded
	}

	got := Analyze(txns, 3, asOf)

	if got.TotalExpense != 50_000 {
		t.Errorf("TotalExpense = %d, want 50000", got.TotalExpense)
	}
	if len(got.Categories) != 1 || got.Categories[0].Category != category.Food {
		t.Errorf("Categories = %+v", got.Categories)
	}
}

func TestAnalyzeMonthEndWindowStart(t *testing.T) {
	// A month-end asOf must not shift the window start: the start of
	// (March - 1 month) is February 1st even when March has 31 days.
	monthEnd := time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)
	txns := []core.Transaction{
		tx(category.Food, -50_000, 2026, 2, 15),
	}

	got := Analyze(txns, 1, monthEnd)

	wantStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !got.PeriodStart.Equal(wantStart) {
		t.Errorf("PeriodStart = %v, want %v", got.PeriodStart, wantStart)
	}
	if got.TotalExpense != 50_000 {
		t.Errorf("TotalExpense = %d, want 50000", got.TotalExpense)
	}
}

func TestAnalyzeCategoryOrderIsDeterministic(t *testing.T) {
	// Equal totals fall back to display order, so repeated runs of the
	// same input always render identically.
	txns := []core.Transaction{
		tx(category.Shopping, -100_000, 2026, 8, 1),
		tx(category.Food, -100_000, 2026, 8, 2),
		tx(category.Transport, -100_000, 2026, 8, 3),
	}

	first := Analyze(txns, 1, asOf)
	want := []category.Category{category.Food, category.Transport, category.Shopping}
	for i, cat := range want {
		if first.Categories[i].Category != cat {
			t.Fatalf("Categories[%d] = %s, want %s", i, first.Categories[i].Category, cat)
		}
	}

	for run := 0; run < 10; run++ {
		again := Analyze(txns, 1, asOf)
		for i := range first.Categories {
			if again.Categories[i].Category != first.Categories[i].Category {
				t.Fatalf("run %d reordered categories: %s vs %s",
					run, again.Categories[i].Category, first.Categories[i].Category)
			}
		}
	}
}

func TestAnalyzeEffectiveMonthDetection(t *testing.T) {
	// Three months requested but only one month of data: averages must
	// equal that month's totals, not a third of them.
	txns := []core.Transaction{
		tx(category.Food, -200_000, 2026, 8, 3),
		tx(category.Food, -100_000, 2026, 8, 20),
	}

	got := Analyze(txns, 3, asOf)

	if got.AnalyzedMonths != 1 {
		t.Fatalf("AnalyzedMonths = %d, want 1", got.AnalyzedMonths)
	}
	if got.AvgMonthlyExpense != 300_000 {
		t.Errorf("AvgMonthlyExpense = %v, want 300000", got.AvgMonthlyExpense)
	}
	if got.Categories[0].AvgMonthlyAmount != 300_000 {
		t.Errorf("category AvgMonthlyAmount = %v, want 300000", got.Categories[0].AvgMonthlyAmount)
	}
}

func TestAnalyzeFixedExpenseClassification(t *testing.T) {
	// Housing: present every month with identical amounts -> fixed.
	// Shopping: one spike in a single month -> variable.
	txns := []core.Transaction{
		tx(category.Housing, -700_000, 2026, 6, 1),
		tx(category.Housing, -700_000, 2026, 7, 1),
		tx(category.Housing, -700_000, 2026, 8, 1),
		tx(category.Shopping, -900_000, 2026, 7, 15),
	}

	got := Analyze(txns, 3, asOf)

	byCat := map[category.Category]core.CategorySpending{}
	for _, c := range got.Categories {
		byCat[c.Category] = c
	}

	if !byCat[category.Housing].IsFixed {
		t.Error("housing with stable monthly rent should be fixed")
	}
	if byCat[category.Shopping].IsFixed {
		t.Error("one-off shopping spike should be variable")
	}
	if got.FixedExpenses != 2_100_000 {
		t.Errorf("FixedExpenses = %d, want 2100000", got.FixedExpenses)
	}
	if got.VariableExpenses != 900_000 {
		t.Errorf("VariableExpenses = %d, want 900000", got.VariableExpenses)
	}
	// Fixed housing gets the lowest potential regardless of share.
	if byCat[category.Housing].SavingsPotential != category.PotentialLow {
		t.Errorf("housing potential = %q, want low", byCat[category.Housing].SavingsPotential)
	}
}

func TestAnalyzeVariableAmountsAreNotFixed(t *testing.T) {
	// Present every month but with wildly varying totals: CV above 0.3.
	txns := []core.Transaction{
		tx(category.Food, -100_000, 2026, 6, 5),
		tx(category.Food, -500_000, 2026, 7, 5),
		tx(category.Food, -900_000, 2026, 8, 5),
	}

	got := Analyze(txns, 3, asOf)
	if got.Categories[0].IsFixed {
		t.Error("highly variable food spending classified as fixed")
	}
}

func TestAnalyzeSortsByTotalDescending(t *testing.T) {
	txns := []core.Transaction{
		tx(category.Transport, -100_000, 2026, 8, 1),
		tx(category.Food, -400_000, 2026, 8, 2),
		tx(category.Shopping, -200_000, 2026, 8, 3),
	}

	got := Analyze(txns, 3, asOf)
	for i := 1; i < len(got.Categories); i++ {
		if got.Categories[i].TotalAmount > got.Categories[i-1].TotalAmount {
			t.Fatalf("categories not sorted by total: %+v", got.Categories)
		}
	}
}

func TestAnalyzeLookbackZeroIsCurrentMonthOnly(t *testing.T) {
	txns := []core.Transaction{
		tx(category.Food, -100_000, 2026, 8, 1),
		tx(category.Food, -999_000, 2026, 7, 31), // previous month
	}

	got := Analyze(txns, 0, asOf)
	if got.TotalExpense != 100_000 {
		t.Errorf("TotalExpense = %d, want 100000 (current month only)", got.TotalExpense)
	}
}

func TestGenerateCategoryReductionsBound(t *testing.T) {
	txns := []core.Transaction{
		tx(category.Shopping, -600_000, 2026, 8, 1),
		tx(category.Food, -900_000, 2026, 8, 2),
		tx(category.Entertainment, -400_000, 2026, 8, 3),
		tx(category.Housing, -700_000, 2026, 8, 4),
	}
	analysis := Analyze(txns, 3, asOf)

	target := 300_000.0
	reductions := GenerateCategoryReductions(analysis, target)

	if len(reductions) == 0 {
		t.Fatal("expected a non-empty reduction plan")
	}

	var total float64
	for _, r := range reductions {
		if r.ReductionAmount < minReductionWon {
			t.Errorf("reduction for %q below floor: %v", r.Category, r.ReductionAmount)
		}
		if r.TargetAmount != r.CurrentAmount-r.ReductionAmount {
			t.Errorf("target/current mismatch for %q", r.Category)
		}
		if len(r.Tips) < 2 || len(r.Tips) > 4 {
			t.Errorf("tip count for %q = %d, want 2..4", r.Category, len(r.Tips))
		}
		total += r.ReductionAmount
	}
	if total > target {
		t.Errorf("plan total %v exceeds target %v", total, target)
	}
}

func TestGenerateCategoryReductionsOrder(t *testing.T) {
	txns := []core.Transaction{
		// High-potential shopping (large share, variable) must be consumed
		// before fixed housing even though housing's total is larger.
		tx(category.Shopping, -1_000_000, 2026, 8, 1),
		tx(category.Housing, -1_500_000, 2026, 6, 1),
		tx(category.Housing, -1_500_000, 2026, 7, 1),
		tx(category.Housing, -1_500_000, 2026, 8, 1),
	}
	analysis := Analyze(txns, 3, asOf)

	reductions := GenerateCategoryReductions(analysis, 10_000_000)
	if len(reductions) == 0 {
		t.Fatal("expected reductions")
	}
	if reductions[0].Category != category.Shopping {
		t.Errorf("first reduction = %q, want shopping", reductions[0].Category)
	}
}

func TestGenerateCategoryReductionsZeroTarget(t *testing.T) {
	txns := []core.Transaction{tx(category.Food, -500_000, 2026, 8, 1)}
	analysis := Analyze(txns, 3, asOf)

	if got := GenerateCategoryReductions(analysis, 0); len(got) != 0 {
		t.Errorf("zero target produced %d reductions", len(got))
	}
}

func TestEvaluateDifficulty(t *testing.T) {
	tests := []struct {
		potential category.Potential
		pct       float64
		want      core.Difficulty
	}{
		{category.PotentialHigh, 15, core.DifficultyEasy},
		{category.PotentialHigh, 25, core.DifficultyModerate},
		{category.PotentialHigh, 40, core.DifficultyHard},
		{category.PotentialMedium, 50, core.DifficultyModerate},
		{category.PotentialLow, 10, core.DifficultyHard},
	}
	for _, tt := range tests {
		if got := evaluateDifficulty(tt.potential, tt.pct); got != tt.want {
			t.Errorf("evaluateDifficulty(%q, %v) = %q, want %q", tt.potential, tt.pct, got, tt.want)
		}
	}
}

func TestSummarizeAnalysis(t *testing.T) {
	txns := []core.Transaction{
		tx(category.Food, -800_000, 2026, 8, 1),
		tx(category.Shopping, -400_000, 2026, 8, 2),
	}
	analysis := Analyze(txns, 3, asOf)
	reductions := GenerateCategoryReductions(analysis, 200_000)

	summary := SummarizeAnalysis(analysis, reductions)
	if summary == "" {
		t.Fatal("empty summary")
	}
	// Single month of data reads as "this month" rather than a lookback.
	if want := "이번 달"; !strings.Contains(summary, want) {
		t.Errorf("summary missing %q: %s", want, summary)
	}
}

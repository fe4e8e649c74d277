package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"nestegg/internal/category"
	"nestegg/internal/core"
)

// GenerateCategoryReductions synthesizes a ranked reduction plan toward
// targetMonthlyIncrease (won of additional monthly savings).
//
// Categories are consumed greedily in savings-potential order (ties broken
// by total amount); each contributes at most its monthly average times the
// per-category reduction cap, and proposals under 1,000 won are skipped.
// The output keeps consumption order, highest potential first.
func GenerateCategoryReductions(analysis core.SpendingAnalysis, targetMonthlyIncrease float64) []core.CategoryReduction {
	sorted := make([]core.CategorySpending, len(analysis.Categories))
	copy(sorted, analysis.Categories)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].SavingsPotential.Rank(), sorted[j].SavingsPotential.Rank()
		if ri != rj {
			return ri > rj
		}
		return sorted[i].TotalAmount > sorted[j].TotalAmount
	})

	var reductions []core.CategoryReduction
	remaining := targetMonthlyIncrease

	for _, cat := range sorted {
		if remaining <= 0 {
			break
		}

		maxRate := category.MaxReductionRate(cat.Category, cat.SavingsPotential)
		if maxRate == 0 {
			continue
		}

		capacity := cat.AvgMonthlyAmount * maxRate
		reduction := math.Min(capacity, remaining)
		if reduction < minReductionWon {
			continue
		}

		pct := reduction / cat.AvgMonthlyAmount * 100

		reductions = append(reductions, core.CategoryReduction{
			Category:            cat.Category,
			CategoryName:        cat.CategoryName,
			CurrentAmount:       cat.AvgMonthlyAmount,
			TargetAmount:        cat.AvgMonthlyAmount - reduction,
			ReductionAmount:     reduction,
			ReductionPercentage: pct,
			Difficulty:          evaluateDifficulty(cat.SavingsPotential, pct),
			Tips:                category.SavingTips(cat.Category, tipCount(pct)),
		})

		remaining -= reduction
	}

	return reductions
}

func evaluateDifficulty(p category.Potential, reductionPct float64) core.Difficulty {
	if p == category.PotentialHigh && reductionPct <= 20 {
		return core.DifficultyEasy
	}
	if p == category.PotentialMedium || (p == category.PotentialHigh && reductionPct <= 30) {
		return core.DifficultyModerate
	}
	return core.DifficultyHard
}

// tipCount sizes the tip list by how aggressive the cut is.
func tipCount(reductionPct float64) int {
	switch {
	case reductionPct > 25:
		return 4
	case reductionPct > 15:
		return 3
	default:
		return 2
	}
}

// SummarizeAnalysis renders a short human-readable rationale for a
// reduction plan, used as scenario display text.
func SummarizeAnalysis(analysis core.SpendingAnalysis, reductions []core.CategoryReduction) string {
	var totalReduction float64
	for _, r := range reductions {
		totalReduction += r.ReductionAmount
	}
	var reductionPct float64
	if analysis.AvgMonthlyExpense > 0 {
		reductionPct = totalReduction / analysis.AvgMonthlyExpense * 100
	}

	top := analysis.Categories
	if len(top) > 3 {
		top = top[:3]
	}
	topLabels := make([]string, len(top))
	for i, c := range top {
		topLabels[i] = fmt.Sprintf("%s(%.0f%%)", c.CategoryName, c.Percentage)
	}

	periodText := fmt.Sprintf("최근 %d개월간", analysis.AnalyzedMonths)
	if analysis.AnalyzedMonths == 1 {
		periodText = "이번 달"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s 월평균 %d만원을 지출하셨습니다.\n\n", periodText, core.RoundWon(analysis.AvgMonthlyExpense/10_000))
	fmt.Fprintf(&b, "주요 지출 항목은 %s입니다.\n\n", strings.Join(topLabels, ", "))
	fmt.Fprintf(&b, "%d개 카테고리에서 총 월 %d만원(%.1f%%)을 절감할 수 있습니다.\n\n",
		len(reductions), core.RoundWon(totalReduction/10_000), reductionPct)

	var easy []string
	for _, r := range reductions {
		if r.Difficulty == core.DifficultyEasy {
			easy = append(easy, r.CategoryName)
		}
	}
	if len(easy) > 0 {
		fmt.Fprintf(&b, "💡 먼저 %s부터 시작하면 쉽게 절약할 수 있습니다.", strings.Join(easy, ", "))
	}

	return b.String()
}

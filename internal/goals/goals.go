// Package goals derives simulation inputs from a user's stored goals and
// assets: which goals become life events, how holdings fold into the
// initial asset breakdown, and progress figures for display.
package goals

import (
	"strings"

	"nestegg/internal/core"
)

// Words that mark a goal as a property purchase. A matching goal becomes
// an asset acquisition event instead of a plain expense, so the purchase
// shows up on the real-estate side of the balance sheet.
var propertyKeywords = []string{
	"주택", "아파트", "빌라", "부동산", "건물", "토지", "집",
	"house", "apartment", "매매",
}

func isPropertyGoal(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range propertyKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// LifeEventsFromGoals converts dated, unfinished goals into simulation
// life events. Simulation targets are skipped: they describe a desired
// outcome, not a planned outlay. The event amount is what is still
// missing, not the full target.
func LifeEventsFromGoals(goals []core.Goal) []core.LifeEvent {
	events := make([]core.LifeEvent, 0, len(goals))
	for _, g := range goals {
		if g.Type == core.GoalSimulationTarget {
			continue
		}
		if g.TargetDate == nil || g.TargetAmount <= g.CurrentAmount {
			continue
		}

		kind := core.EventExpense
		if isPropertyGoal(g.Name) {
			kind = core.EventAssetAcquisition
		}
		events = append(events, core.LifeEvent{
			Name:   g.Name,
			Kind:   kind,
			Amount: float64(g.TargetAmount - g.CurrentAmount),
			Date:   *g.TargetDate,
		})
	}
	return events
}

// BreakdownFromAssets folds tracked holdings into the simulation's four
// buckets. Unknown types count as cash.
func BreakdownFromAssets(assets []core.Asset) core.AssetsBreakdown {
	var b core.AssetsBreakdown
	for _, a := range assets {
		amount := float64(a.Amount)
		switch a.Type {
		case core.AssetInvestment:
			b.Investment += amount
		case core.AssetRealEstate:
			b.RealEstate += amount
		case core.AssetDebt:
			b.Debt += amount
		default:
			b.Cash += amount
		}
	}
	return b
}

// Progress returns how much of the goal is funded, clamped to [0, 1].
func Progress(g core.Goal) float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := float64(g.CurrentAmount) / float64(g.TargetAmount)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ProgressPercentage is Progress scaled to whole percent.
func ProgressPercentage(g core.Goal) int {
	return int(Progress(g) * 100)
}

// IsAchieved reports whether the goal is fully funded.
func IsAchieved(g core.Goal) bool {
	return g.TargetAmount > 0 && g.CurrentAmount >= g.TargetAmount
}

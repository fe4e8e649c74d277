package goals

import (
	"testing"
	"time"

	"nestegg/internal/core"
)

func datePtr(y int, m time.Month) *time.Time {
	d := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestLifeEventsFromGoals(t *testing.T) {
	goals := []core.Goal{
		{Name: "비상금", Type: core.GoalEmergency, TargetAmount: 10_000_000, CurrentAmount: 4_000_000, TargetDate: datePtr(2027, time.June)},
		{Name: "아파트 매매", Type: core.GoalSavings, TargetAmount: 300_000_000, CurrentAmount: 100_000_000, TargetDate: datePtr(2030, time.March)},
		{Name: "달성됨", Type: core.GoalSavings, TargetAmount: 1_000_000, CurrentAmount: 1_000_000, TargetDate: datePtr(2027, time.January)},
		{Name: "날짜없음", Type: core.GoalSavings, TargetAmount: 5_000_000},
		{Name: "은퇴 목표", Type: core.GoalSimulationTarget, TargetAmount: 1_000_000_000, TargetDate: datePtr(2050, time.January)},
	}

	events := LifeEventsFromGoals(goals)

	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Kind != core.EventExpense {
		t.Errorf("비상금 kind = %v, want expense", events[0].Kind)
	}
	if events[0].Amount != 6_000_000 {
		t.Errorf("비상금 amount = %v, want remaining 6000000", events[0].Amount)
	}
	if events[1].Kind != core.EventAssetAcquisition {
		t.Errorf("아파트 매매 kind = %v, want asset acquisition", events[1].Kind)
	}
	if events[1].Amount != 200_000_000 {
		t.Errorf("아파트 매매 amount = %v, want 200000000", events[1].Amount)
	}
}

func TestIsPropertyGoal(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"내집마련", true},
		{"주택 구입", true},
		{"My House Fund", true},
		{"Apartment deposit", true},
		{"토지 매입", true},
		{"자동차", false},
		{"여행 자금", false},
	}
	for _, tt := range tests {
		if got := isPropertyGoal(tt.name); got != tt.want {
			t.Errorf("isPropertyGoal(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBreakdownFromAssets(t *testing.T) {
	assets := []core.Asset{
		{Type: core.AssetSavings, Amount: 10_000_000},
		{Type: core.AssetSavings, Amount: 5_000_000},
		{Type: core.AssetInvestment, Amount: 20_000_000},
		{Type: core.AssetRealEstate, Amount: 300_000_000},
		{Type: core.AssetDebt, Amount: 150_000_000},
		{Type: core.AssetType("unknown"), Amount: 1_000_000},
	}

	b := BreakdownFromAssets(assets)

	if b.Cash != 16_000_000 {
		t.Errorf("Cash = %v, want 16000000", b.Cash)
	}
	if b.Investment != 20_000_000 {
		t.Errorf("Investment = %v, want 20000000", b.Investment)
	}
	if b.RealEstate != 300_000_000 {
		t.Errorf("RealEstate = %v, want 300000000", b.RealEstate)
	}
	if b.Debt != 150_000_000 {
		t.Errorf("Debt = %v, want 150000000", b.Debt)
	}
	if b.NetWorth() != 186_000_000+1_000_000 {
		t.Errorf("NetWorth = %v", b.NetWorth())
	}
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name    string
		goal    core.Goal
		want    float64
		wantPct int
	}{
		{"half", core.Goal{TargetAmount: 1_000_000, CurrentAmount: 500_000}, 0.5, 50},
		{"done", core.Goal{TargetAmount: 1_000_000, CurrentAmount: 1_000_000}, 1, 100},
		{"over", core.Goal{TargetAmount: 1_000_000, CurrentAmount: 1_500_000}, 1, 100},
		{"zero target", core.Goal{}, 0, 0},
		{"negative", core.Goal{TargetAmount: 1_000_000, CurrentAmount: -100}, 0, 0},
	}
	for _, tt := range tests {
		if got := Progress(tt.goal); got != tt.want {
			t.Errorf("%s: Progress = %v, want %v", tt.name, got, tt.want)
		}
		if got := ProgressPercentage(tt.goal); got != tt.wantPct {
			t.Errorf("%s: ProgressPercentage = %d, want %d", tt.name, got, tt.wantPct)
		}
	}
}

func TestIsAchieved(t *testing.T) {
	if !IsAchieved(core.Goal{TargetAmount: 100, CurrentAmount: 100}) {
		t.Error("fully funded goal not achieved")
	}
	if IsAchieved(core.Goal{TargetAmount: 100, CurrentAmount: 99}) {
		t.Error("underfunded goal reported achieved")
	}
	if IsAchieved(core.Goal{}) {
		t.Error("zero goal reported achieved")
	}
}

package simulation

import "nestegg/internal/core"

// EconomicScenarioID selects a market-condition preset.
type EconomicScenarioID string

const (
	EconomicNeutral EconomicScenarioID = "neutral"
	EconomicBull    EconomicScenarioID = "bull"
	EconomicBear    EconomicScenarioID = "bear"
)

// EconomicScenario bundles the five annual rate assumptions for one
// market condition. Rates are percentages for display; use Params to get
// fractions for a SimulationInput.
type EconomicScenario struct {
	ID          EconomicScenarioID `json:"id"`
	Name        string             `json:"name"`
	Emoji       string             `json:"emoji"`
	Description string             `json:"description"`

	InflationRate    float64 `json:"inflationRate"`
	InvestmentReturn float64 `json:"investmentReturn"`
	IncomeGrowth     float64 `json:"incomeGrowth"`
	DebtInterest     float64 `json:"debtInterest"`
	RealEstateGrowth float64 `json:"realEstateGrowth"`
}

// Apply writes the preset's rates, converted to fractions, into the input.
func (s EconomicScenario) Apply(in *core.SimulationInput) {
	in.AnnualInflationRate = s.InflationRate / 100
	in.AnnualInvestmentReturn = s.InvestmentReturn / 100
	in.AnnualIncomeGrowth = s.IncomeGrowth / 100
	in.AnnualDebtInterest = s.DebtInterest / 100
	in.AnnualRealEstateGrowth = s.RealEstateGrowth / 100
}

// EconomicScenarios are the built-in market-condition presets.
var EconomicScenarios = map[EconomicScenarioID]EconomicScenario{
	EconomicNeutral: {
		ID:               EconomicNeutral,
		Name:             "현재 추세",
		Emoji:            "😐",
		Description:      "최근 3년 평균 경제 지표를 반영합니다.",
		InflationRate:    2.5,
		InvestmentReturn: 4.0,
		IncomeGrowth:     3.0,
		DebtInterest:     5.0,
		RealEstateGrowth: 3.0,
	},
	EconomicBull: {
		ID:               EconomicBull,
		Name:             "호황기 (Boom)",
		Emoji:            "🐂",
		Description:      "경제가 성장하고 자산 가치가 빠르게 상승합니다.",
		InflationRate:    2.0,
		InvestmentReturn: 8.0,
		IncomeGrowth:     5.0,
		DebtInterest:     4.0,
		RealEstateGrowth: 5.0,
	},
	EconomicBear: {
		ID:               EconomicBear,
		Name:             "위기 (Crisis)",
		Emoji:            "🐻",
		Description:      "고물가와 경기 침체가 동시에 오는 상황입니다.",
		InflationRate:    5.0,
		InvestmentReturn: -2.0,
		IncomeGrowth:     1.0,
		DebtInterest:     7.0,
		RealEstateGrowth: -1.0,
	},
}

// DefaultScenarios are the built-in comparison adjustments: an aggressive
// saving preset that cuts spending by 20%.
var DefaultScenarios = []core.ScenarioAdjustment{
	{
		ID:                "aggressive-saving",
		Name:              "공격적 저축",
		Description:       "지출 20% 감소",
		ExpenseMultiplier: 0.8,
	},
}

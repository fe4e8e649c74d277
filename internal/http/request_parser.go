// Request DTO parsing. Money fields accept JSON numbers or strings,
// with thousands separators tolerated in strings; they are parsed
// through decimals so "3,000,000.50" survives the trip into the engine.
package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"nestegg/internal/category"
	"nestegg/internal/core"
)

// Amount is a money field in request payloads.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		a.Decimal = decimal.Zero
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a.Decimal = d
	return nil
}

// Float returns the amount for the engine's float-based arithmetic.
func (a Amount) Float() float64 {
	f, _ := a.Decimal.Float64()
	return f
}

// Won returns the amount rounded to whole won.
func (a Amount) Won() int64 {
	return a.Decimal.Round(0).IntPart()
}

// AssetsPayload is the optional bucket-level initial assets.
type AssetsPayload struct {
	Cash       Amount `json:"cash"`
	Investment Amount `json:"investment"`
	RealEstate Amount `json:"realEstate"`
	Debt       Amount `json:"debt"`
}

// LifeEventPayload is one planned one-off in a simulate request.
type LifeEventPayload struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Amount Amount `json:"amount"`
	Date   string `json:"date"`
}

// RatesPayload carries explicit annual rates as fractions.
type RatesPayload struct {
	Inflation        *float64 `json:"inflation"`
	InvestmentReturn *float64 `json:"investmentReturn"`
	IncomeGrowth     *float64 `json:"incomeGrowth"`
	DebtInterest     *float64 `json:"debtInterest"`
	RealEstateGrowth *float64 `json:"realEstateGrowth"`
}

// ScenarioPayload is one custom comparison adjustment.
type ScenarioPayload struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	IncomeMultiplier     float64 `json:"incomeMultiplier"`
	ExpenseMultiplier    float64 `json:"expenseMultiplier"`
	SavingsMultiplier    float64 `json:"savingsMultiplier"`
	MonthlyIncomeChange  Amount  `json:"monthlyIncomeChange"`
	MonthlyExpenseChange Amount  `json:"monthlyExpenseChange"`
	MonthlySavingsChange Amount  `json:"monthlySavingsChange"`
}

// SimulateRequest is the payload for POST /api/v1/simulate.
type SimulateRequest struct {
	CurrentSavings   *Amount            `json:"currentSavings"`
	Assets           *AssetsPayload     `json:"assets"`
	MonthlyIncome    Amount             `json:"monthlyIncome"`
	MonthlyExpense   Amount             `json:"monthlyExpense"`
	Years            int                `json:"years"`
	CurrentAge       int                `json:"currentAge"`
	RetirementAge    int                `json:"retirementAge"`
	MonthlyPension   Amount             `json:"monthlyPension"`
	EconomicScenario string             `json:"economicScenario"`
	Rates            *RatesPayload      `json:"rates"`
	LifeEvents       []LifeEventPayload `json:"lifeEvents"`
	Scenarios        []ScenarioPayload  `json:"scenarios"`
}

// TransactionPayload is one inline transaction for analysis requests.
type TransactionPayload struct {
	Category string `json:"category"`
	Amount   Amount `json:"amount"`
	Memo     string `json:"memo"`
	Date     string `json:"date"`
}

// AnalyzeRequest is the payload for the analysis endpoints. Either an
// inline transaction list or a user ID whose stored transactions are
// analyzed.
type AnalyzeRequest struct {
	UserID         string               `json:"userId"`
	Transactions   []TransactionPayload `json:"transactions"`
	LookbackMonths int                  `json:"lookbackMonths"`
	AsOf           string               `json:"asOf"`
}

func unmarshalStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// parseFlexibleDate accepts "2006-01", "2006-01-02", and RFC 3339.
func parseFlexibleDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01", "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM, YYYY-MM-DD or RFC 3339", s)
}

// ToInput converts the request into engine input plus the comparison
// adjustments to run.
func (req SimulateRequest) ToInput() (core.SimulationInput, []core.ScenarioAdjustment, error) {
	var assets core.InitialAssets
	switch {
	case req.Assets != nil:
		assets = core.Breakdown(core.AssetsBreakdown{
			Cash:       req.Assets.Cash.Float(),
			Investment: req.Assets.Investment.Float(),
			RealEstate: req.Assets.RealEstate.Float(),
			Debt:       req.Assets.Debt.Float(),
		})
	case req.CurrentSavings != nil:
		assets = core.AllCash(req.CurrentSavings.Float())
	default:
		return core.SimulationInput{}, nil, fmt.Errorf("either currentSavings or assets is required")
	}

	in := core.SimulationInput{
		Assets:         assets,
		MonthlyIncome:  req.MonthlyIncome.Float(),
		MonthlyExpense: req.MonthlyExpense.Float(),
		Years:          req.Years,
		CurrentAge:     req.CurrentAge,
		RetirementAge:  req.RetirementAge,
		MonthlyPension: req.MonthlyPension.Float(),
	}
	savings := in.MonthlyIncome - in.MonthlyExpense
	in.MonthlySavings = &savings

	if req.EconomicScenario != "" {
		preset, ok := economicPreset(req.EconomicScenario)
		if !ok {
			return core.SimulationInput{}, nil, fmt.Errorf("unknown economic scenario %q", req.EconomicScenario)
		}
		preset.Apply(&in)
	}
	if req.Rates != nil {
		if req.Rates.Inflation != nil {
			in.AnnualInflationRate = *req.Rates.Inflation
		}
		if req.Rates.InvestmentReturn != nil {
			in.AnnualInvestmentReturn = *req.Rates.InvestmentReturn
		}
		if req.Rates.IncomeGrowth != nil {
			in.AnnualIncomeGrowth = *req.Rates.IncomeGrowth
		}
		if req.Rates.DebtInterest != nil {
			in.AnnualDebtInterest = *req.Rates.DebtInterest
		}
		if req.Rates.RealEstateGrowth != nil {
			in.AnnualRealEstateGrowth = *req.Rates.RealEstateGrowth
		}
	}

	for _, ev := range req.LifeEvents {
		date, err := parseFlexibleDate(ev.Date)
		if err != nil {
			return core.SimulationInput{}, nil, fmt.Errorf("life event %q: %w", ev.Name, err)
		}

		kind := core.EventExpense
		if ev.Type == "asset_acquisition" {
			kind = core.EventAssetAcquisition
		} else if ev.Type != "" && ev.Type != "expense" {
			return core.SimulationInput{}, nil, fmt.Errorf("life event %q: unknown type %q", ev.Name, ev.Type)
		}

		in.LifeEvents = append(in.LifeEvents, core.LifeEvent{
			Name:   ev.Name,
			Kind:   kind,
			Amount: ev.Amount.Float(),
			Date:   date,
		})
	}

	var adjustments []core.ScenarioAdjustment
	for _, sc := range req.Scenarios {
		adjustments = append(adjustments, core.ScenarioAdjustment{
			ID:                   sc.ID,
			Name:                 sc.Name,
			Description:          sc.Description,
			IncomeMultiplier:     sc.IncomeMultiplier,
			ExpenseMultiplier:    sc.ExpenseMultiplier,
			SavingsMultiplier:    sc.SavingsMultiplier,
			MonthlyIncomeChange:  sc.MonthlyIncomeChange.Float(),
			MonthlyExpenseChange: sc.MonthlyExpenseChange.Float(),
			MonthlySavingsChange: sc.MonthlySavingsChange.Float(),
		})
	}

	return in, adjustments, nil
}

// ToTransactions converts inline transactions for the analyzer.
func (req AnalyzeRequest) ToTransactions() ([]core.Transaction, error) {
	out := make([]core.Transaction, 0, len(req.Transactions))
	for i, tx := range req.Transactions {
		date, err := parseFlexibleDate(tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		out = append(out, core.Transaction{
			Category: category.Category(tx.Category),
			Amount:   tx.Amount.Won(),
			Memo:     tx.Memo,
			Date:     date,
		})
	}
	return out, nil
}

// AsOfTime parses the optional asOf field, defaulting to now.
func (req AnalyzeRequest) AsOfTime() (time.Time, error) {
	if req.AsOf == "" {
		return time.Now(), nil
	}
	return parseFlexibleDate(req.AsOf)
}

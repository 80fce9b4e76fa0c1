package compensation

import (
	"encoding/json"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// FormulaInput - everything the formula may read for one shift
type FormulaInput struct {
	Base        compensation.BaseFormula
	Bonuses     []compensation.BonusStatus
	Metrics     map[string]decimal.Decimal
	ShiftsCount int
}

// Breakdown is stored as the shift's salary_breakdown.
type Breakdown struct {
	Base    BaseBreakdown              `json:"base"`
	Bonuses []BonusLine                `json:"bonuses"`
	Metrics map[string]decimal.Decimal `json:"metrics"`
	Total   decimal.Decimal            `json:"total"`
}

type BaseBreakdown struct {
	Hours          decimal.Decimal `json:"hours"`
	Hourly         decimal.Decimal `json:"hourly"`
	Shift          decimal.Decimal `json:"shift"`
	Revenue        decimal.Decimal `json:"revenue"`
	RevenuePercent decimal.Decimal `json:"revenue_percent"`
	Amount         decimal.Decimal `json:"amount"`
}

type BonusLine struct {
	ID          string                  `json:"id"`
	MetricKey   string                  `json:"metric_key"`
	Label       string                  `json:"label"`
	RewardType  compensation.RewardType `json:"reward_type"`
	RewardValue decimal.Decimal         `json:"reward_value"`
	MetricValue decimal.Decimal         `json:"metric_value"`
	Amount      decimal.Decimal         `json:"amount"`
}

// Calculate is deterministic: the same input always gives the same breakdown.
func Calculate(in FormulaInput) Breakdown {
	hours := in.Metrics[compensation.MetricTotalHours]
	revenue := in.Metrics[compensation.MetricTotalRevenue]

	base := BaseBreakdown{
		Hours:          hours,
		Hourly:         money.Round2(hours.Mul(in.Base.HourlyRate)),
		Shift:          money.Round2(in.Base.ShiftRate),
		Revenue:        money.Round2(revenue.Mul(in.Base.RevenuePercent).Div(hundred)),
		RevenuePercent: in.Base.RevenuePercent,
	}
	base.Amount = base.Hourly.Add(base.Shift).Add(base.Revenue)

	total := base.Amount
	lines := make([]BonusLine, 0, len(in.Bonuses))
	for _, b := range in.Bonuses {
		if !b.IsMet {
			continue
		}
		line := BonusLine{
			ID:          b.BonusID,
			MetricKey:   b.MetricKey,
			Label:       b.Label,
			RewardType:  b.RewardType,
			RewardValue: b.RewardValue,
			MetricValue: in.Metrics[b.MetricKey],
			Amount:      bonusAmount(b, in.Metrics[b.MetricKey], in.ShiftsCount),
		}
		total = total.Add(line.Amount)
		lines = append(lines, line)
	}

	metrics := make(map[string]decimal.Decimal, len(in.Metrics))
	for k, v := range in.Metrics {
		metrics[k] = v
	}

	return Breakdown{
		Base:    base,
		Bonuses: lines,
		Metrics: metrics,
		Total:   money.Round2(total),
	}
}

func bonusAmount(b compensation.BonusStatus, metric decimal.Decimal, shiftsCount int) decimal.Decimal {
	if b.RewardType == compensation.RewardPercent {
		return money.Round2(metric.Mul(b.RewardValue).Div(hundred))
	}
	if b.Mode == compensation.BonusModeShift {
		return money.Round2(b.RewardValue)
	}
	// a monthly fixed reward is spread over the finished shifts
	if shiftsCount <= 0 {
		return decimal.Zero
	}
	return money.Round2(b.RewardValue.Div(decimal.NewFromInt(int64(shiftsCount))))
}

// Encode renders the breakdown for storage.
func (b Breakdown) Encode() (json.RawMessage, error) {
	return json.Marshal(b)
}

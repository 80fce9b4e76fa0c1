package compensation

import (
	"encoding/json"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/shopspring/decimal"
)

// EvaluationInput - per employee values shared by all shifts of the month
type EvaluationInput struct {
	Scheme      compensation.Scheme
	Bonuses     []compensation.BonusStatus
	Injected    map[string]decimal.Decimal
	ShiftsCount int
}

// ShiftSalary - pay of one shift
type ShiftSalary struct {
	CalculatedSalary decimal.Decimal
	Breakdown        json.RawMessage
	Frozen           bool
	Issues           []compensation.DataIssue
}

// EvaluateShift computes the pay of a finished shift. Paid shifts return the
// stored salary and breakdown as they are and nothing else is read.
func EvaluateShift(shift compensation.Shift, metrics ShiftMetrics, in EvaluationInput) (ShiftSalary, error) {
	if shift.IsFrozen() {
		stored := decimal.Zero
		if shift.CalculatedSalary != nil {
			stored = *shift.CalculatedSalary
		}
		return ShiftSalary{
			CalculatedSalary: stored,
			Breakdown:        shift.SalaryBreakdown,
			Frozen:           true,
		}, nil
	}

	values := make(map[string]decimal.Decimal, len(metrics.Values)+len(in.Injected))
	for k, v := range metrics.Values {
		values[k] = v
	}
	for k, v := range in.Injected {
		values[k] = v
	}

	breakdown := Calculate(FormulaInput{
		Base:        in.Scheme.Base,
		Bonuses:     in.Bonuses,
		Metrics:     values,
		ShiftsCount: in.ShiftsCount,
	})
	encoded, err := breakdown.Encode()
	if err != nil {
		return ShiftSalary{}, fmt.Errorf("encode breakdown of shift %s: %w", shift.ID, err)
	}

	return ShiftSalary{
		CalculatedSalary: breakdown.Total,
		Breakdown:        encoded,
		Issues:           metrics.Issues,
	}, nil
}

package compensation

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// ShiftMetrics - normalized numeric metrics of one shift
type ShiftMetrics struct {
	Values map[string]decimal.Decimal
	Issues []compensation.DataIssue
}

// derivedKeys are computed by the engine and never read from the report blob.
var derivedKeys = map[string]bool{
	compensation.MetricTotalRevenue:       true,
	compensation.MetricTotalExpenses:      true,
	compensation.MetricEvaluationScore:    true,
	compensation.MetricEvaluationCount:    true,
	compensation.MetricMaintenanceBonus:   true,
	compensation.MetricShiftsCount:        true,
	compensation.MetricAvgRevenuePerShift: true,
}

// ShiftColumns returns the fixed column values of a shift that are set.
func ShiftColumns(shift compensation.Shift) map[string]interface{} {
	columns := make(map[string]interface{}, 3)
	if shift.CashIncome != nil {
		columns[compensation.MetricCashIncome] = *shift.CashIncome
	}
	if shift.CardIncome != nil {
		columns[compensation.MetricCardIncome] = *shift.CardIncome
	}
	if shift.TotalHours != nil {
		columns[compensation.MetricTotalHours] = *shift.TotalHours
	}
	return columns
}

// MergeShiftMetrics combines the fixed columns with the report blob.
// A column wins over a blob key of the same name; the blob value is dropped
// so the metric is counted once.
func MergeShiftMetrics(columns, blob map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(columns)+len(blob))
	for k, v := range blob {
		if derivedKeys[k] {
			continue
		}
		merged[k] = v
	}
	for k, v := range columns {
		merged[k] = v
	}
	return merged
}

// AggregateShiftMetrics parses the merged shift values and adds the revenue,
// expense and hour totals. Unparseable non-empty values count as zero and are
// returned as issues.
func AggregateShiftMetrics(ctx context.Context, shift compensation.Shift, cc *ClassificationContext) ShiftMetrics {
	merged := MergeShiftMetrics(ShiftColumns(shift), shift.ReportData)

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := ShiftMetrics{
		Values: make(map[string]decimal.Decimal, len(keys)+3),
	}
	revenue := decimal.Zero
	expenses := decimal.Zero

	for _, key := range keys {
		info := cc.Classify(key)
		if !info.IsNumeric {
			continue
		}

		raw := merged[key]
		value, ok := money.Parse(raw)
		if !ok {
			issue := compensation.DataIssue{ShiftID: shift.ID, Key: key, Raw: money.Describe(raw)}
			result.Issues = append(result.Issues, issue)
			slog.WarnContext(ctx, "unparseable shift metric counted as zero",
				"shift_id", shift.ID,
				"employee_id", shift.EmployeeID,
				"metric_key", key,
				"raw", issue.Raw,
			)
			value = decimal.Zero
		}
		result.Values[key] = value

		switch info.Category {
		case compensation.CategoryIncome:
			revenue = revenue.Add(value)
		case compensation.CategoryExpense:
			expenses = expenses.Add(value)
		}
	}

	if _, ok := result.Values[compensation.MetricTotalHours]; !ok {
		result.Values[compensation.MetricTotalHours] = decimal.Zero
	}
	result.Values[compensation.MetricTotalRevenue] = revenue
	result.Values[compensation.MetricTotalExpenses] = expenses

	return result
}

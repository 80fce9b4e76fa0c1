package compensation

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeShiftMetrics_ColumnsWin(t *testing.T) {
	columns := map[string]interface{}{
		"cash_income": "1000",
		"total_hours": "8",
	}
	blob := map[string]interface{}{
		"cash_income":   "999999",
		"bar_sales":     "200",
		"total_revenue": "5",
	}

	merged := MergeShiftMetrics(columns, blob)

	assert.Equal(t, "1000", merged["cash_income"])
	assert.Equal(t, "8", merged["total_hours"])
	assert.Equal(t, "200", merged["bar_sales"])
	assert.NotContains(t, merged, "total_revenue")
	assert.Len(t, merged, 3)
}

func TestMergeShiftMetrics_NilColumnKeepsBlob(t *testing.T) {
	shift := closedShift("s1", testEmployee, 3, "8", "100", "50")
	shift.CardIncome = nil
	shift.ReportData = map[string]interface{}{"card_income": 75.5}

	merged := MergeShiftMetrics(ShiftColumns(shift), shift.ReportData)

	assert.Equal(t, "100", merged["cash_income"])
	assert.Equal(t, 75.5, merged["card_income"])
}

func TestAggregateShiftMetrics_NoDoubleCount(t *testing.T) {
	cc := NewClassificationContext([]compensation.ReportField{
		{MetricKey: "cash_income", FieldType: "INCOME"},
		{MetricKey: "card_income", FieldType: "INCOME"},
		{MetricKey: "bar_sales", FieldType: "INCOME"},
		{MetricKey: "supplies_expense"},
	}, nil)

	shift := closedShift("s1", testEmployee, 3, "8.5", "1000", "500")
	shift.ReportData = map[string]interface{}{
		"cash_income":      "1000",
		"card_income":      500,
		"bar_sales":        "250,50",
		"supplies_expense": "40",
		"manager_comment":  "all good",
	}

	m := AggregateShiftMetrics(context.Background(), shift, cc)

	require.Empty(t, m.Issues)
	assert.True(t, dec("1750.5").Equal(m.Values[compensation.MetricTotalRevenue]), m.Values[compensation.MetricTotalRevenue].String())
	assert.True(t, dec("40").Equal(m.Values[compensation.MetricTotalExpenses]))
	assert.True(t, dec("8.5").Equal(m.Values[compensation.MetricTotalHours]))
	assert.NotContains(t, m.Values, "manager_comment")
}

func TestAggregateShiftMetrics_UnparseableValues(t *testing.T) {
	shift := closedShift("s1", testEmployee, 3, "eight", "100", "")
	shift.ReportData = map[string]interface{}{
		"kitchen_income": "n/a",
		"empty_income":   "",
		"missing_income": nil,
	}

	m := AggregateShiftMetrics(context.Background(), shift, NewClassificationContext(nil, nil))

	require.Len(t, m.Issues, 2)
	assert.Equal(t, compensation.DataIssue{ShiftID: "s1", Key: "kitchen_income", Raw: "n/a"}, m.Issues[0])
	assert.Equal(t, compensation.DataIssue{ShiftID: "s1", Key: "total_hours", Raw: "eight"}, m.Issues[1])

	assert.True(t, m.Values[compensation.MetricTotalHours].IsZero())
	assert.True(t, m.Values["kitchen_income"].IsZero())
	assert.True(t, m.Values["empty_income"].IsZero())
	assert.True(t, dec("100").Equal(m.Values[compensation.MetricTotalRevenue]))
}

func TestAggregateShiftMetrics_MissingColumns(t *testing.T) {
	shift := compensation.Shift{ID: "s1", EmployeeID: testEmployee, Status: compensation.ShiftStatusClosed}

	m := AggregateShiftMetrics(context.Background(), shift, nil)

	assert.Empty(t, m.Issues)
	assert.True(t, m.Values[compensation.MetricTotalHours].IsZero())
	assert.True(t, m.Values[compensation.MetricTotalRevenue].IsZero())
	assert.True(t, m.Values[compensation.MetricTotalExpenses].IsZero())
}

func TestAggregateShiftMetrics_AmbiguousSeparatorIsReported(t *testing.T) {
	shift := closedShift("s1", testEmployee, 3, "8", "", "")
	shift.ReportData = map[string]interface{}{
		"bar_income": "1,500",
	}

	m := AggregateShiftMetrics(context.Background(), shift, NewClassificationContext(nil, nil))

	require.Len(t, m.Issues, 1)
	assert.Equal(t, compensation.DataIssue{ShiftID: "s1", Key: "bar_income", Raw: "1,500"}, m.Issues[0])
	assert.True(t, m.Values["bar_income"].IsZero())
	assert.True(t, m.Values[compensation.MetricTotalRevenue].IsZero())
}

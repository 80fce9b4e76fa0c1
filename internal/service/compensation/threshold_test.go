package compensation

import (
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const progressiveRevenue = `{
	"id": "rev",
	"metric_key": "total_revenue",
	"bonus_mode": "MONTH",
	"type": "PROGRESSIVE",
	"thresholds": [
		{"from": 30, "percent": 15, "label": "gold"},
		{"from": 10, "percent": 5, "label": "bronze"},
		{"from": 20, "percent": 10, "label": "silver"}
	]
}`

func TestResolveBonus_ProgressiveTier(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	status := ResolveBonus(bonus, Attendance{Shifts: 15}, 15, dec("25"))

	assert.True(t, status.IsMet)
	assert.Equal(t, compensation.BonusKindProgressive, status.Kind)
	assert.Equal(t, compensation.RewardPercent, status.RewardType)
	assert.True(t, dec("10").Equal(status.RewardValue))
	assert.True(t, dec("30").Equal(status.TargetValue))
	assert.Equal(t, "silver", status.MatchedTier)
	assert.True(t, dec("83.33").Equal(status.ProgressPercent), status.ProgressPercent.String())

	require.Len(t, status.Thresholds, 3)
	assert.True(t, dec("10").Equal(status.Thresholds[0].From))
	assert.True(t, dec("20").Equal(status.Thresholds[1].From))
	assert.True(t, dec("30").Equal(status.Thresholds[2].From))
}

func TestResolveBonus_Proration(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	status := ResolveBonus(bonus, Attendance{Shifts: 5}, 15, dec("7"))

	require.Len(t, status.Thresholds, 3)
	assert.True(t, dec("3.33").Equal(status.Thresholds[0].From), status.Thresholds[0].From.String())
	assert.True(t, dec("6.67").Equal(status.Thresholds[1].From), status.Thresholds[1].From.String())
	assert.True(t, dec("10").Equal(status.Thresholds[2].From))

	assert.True(t, status.IsMet)
	assert.Equal(t, "silver", status.MatchedTier)
	assert.True(t, dec("10").Equal(status.TargetValue))
}

func TestResolveBonus_TopTierKeepsOwnTarget(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	status := ResolveBonus(bonus, Attendance{Shifts: 15}, 15, dec("45"))

	assert.True(t, status.IsMet)
	assert.True(t, dec("15").Equal(status.RewardValue))
	assert.True(t, dec("30").Equal(status.TargetValue))
	assert.True(t, dec("150").Equal(status.ProgressPercent))
}

func TestResolveBonus_ProgressiveBelowFirstTier(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	status := ResolveBonus(bonus, Attendance{Shifts: 15}, 15, dec("9.99"))

	assert.False(t, status.IsMet)
	assert.True(t, status.RewardValue.IsZero())
	assert.True(t, dec("10").Equal(status.TargetValue))
	assert.Empty(t, status.MatchedTier)
}

func TestResolveBonus_SingleThreshold(t *testing.T) {
	bonus := mustBonus(t, `{"metric_key":"total_revenue","type":"PROGRESSIVE","thresholds":[{"from":"1000","percent":"3"}]}`)

	status := ResolveBonus(bonus, Attendance{Shifts: 15}, 15, dec("1200"))

	assert.True(t, status.IsMet)
	assert.True(t, dec("1000").Equal(status.TargetValue))
	assert.Equal(t, "1000", status.MatchedTier)
}

func TestResolveBonus_ZeroAttendance(t *testing.T) {
	bonuses := []compensation.PeriodBonus{
		mustBonus(t, progressiveRevenue),
		mustBonus(t, `{"metric_key":"total_hours","type":"FLAT","target_per_shift":0,"reward_type":"FIXED","reward_value":100}`),
		mustBonus(t, `{"metric_key":"evaluation_score","bonus_mode":"SHIFT","type":"FLAT","target_per_shift":"0","reward_type":"PERCENT","reward_value":5}`),
		mustBonus(t, `{"metric_key":"total_revenue","type":"PROGRESSIVE","thresholds":[{"from":0,"percent":1}]}`),
	}

	for _, b := range bonuses {
		status := ResolveBonus(b, Attendance{Shifts: 0, Planned: 10}, 15, dec("5000"))
		assert.False(t, status.IsMet, b.MetricKey)
		assert.True(t, status.CurrentValue.IsZero(), b.MetricKey)
	}
}

func TestResolveBonus_ZeroAttendanceUsesPlanned(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	status := ResolveBonus(bonus, Attendance{Shifts: 0, Planned: 3}, 15, dec("100"))

	assert.False(t, status.IsMet)
	assert.True(t, dec("2").Equal(status.TargetValue))
	assert.True(t, status.ProgressPercent.IsZero())
}

func TestResolveBonus_Flat(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		shifts     int
		current    string
		wantTarget string
		wantMet    bool
	}{
		{
			name:       "month mode prorated",
			raw:        `{"metric_key":"total_revenue","type":"FLAT","target_per_shift":3000,"reward_value":500}`,
			shifts:     10,
			current:    "2000",
			wantTarget: "2000",
			wantMet:    true,
		},
		{
			name:       "month mode not reached",
			raw:        `{"metric_key":"total_revenue","type":"FLAT","target_per_shift":3000,"reward_value":500}`,
			shifts:     10,
			current:    "1999.99",
			wantTarget: "2000",
			wantMet:    false,
		},
		{
			name:       "month mode just below an unrounded target",
			raw:        `{"metric_key":"total_hours","type":"FLAT","target_per_shift":100,"reward_value":500}`,
			shifts:     8,
			current:    "53.332",
			wantTarget: "53.33",
			wantMet:    false,
		},
		{
			name:       "month mode above an unrounded target",
			raw:        `{"metric_key":"total_hours","type":"FLAT","target_per_shift":100,"reward_value":500}`,
			shifts:     8,
			current:    "53.334",
			wantTarget: "53.33",
			wantMet:    true,
		},
		{
			name:       "shift mode linear",
			raw:        `{"metric_key":"total_hours","bonus_mode":"SHIFT","type":"FLAT","target_per_shift":8,"reward_value":50}`,
			shifts:     4,
			current:    "32",
			wantTarget: "32",
			wantMet:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ResolveBonus(mustBonus(t, tt.raw), Attendance{Shifts: tt.shifts}, 15, dec(tt.current))
			assert.True(t, dec(tt.wantTarget).Equal(status.TargetValue), status.TargetValue.String())
			assert.Equal(t, tt.wantMet, status.IsMet)
			assert.Equal(t, compensation.RewardFixed, status.RewardType)
			assert.Equal(t, compensation.BonusKindFlat, status.Kind)
		})
	}
}

func TestResolveBonus_ProgressiveComparesUnroundedTiers(t *testing.T) {
	bonus := mustBonus(t, progressiveRevenue)

	// first tier scales to 10*8/15 = 5.3333...
	below := ResolveBonus(bonus, Attendance{Shifts: 8}, 15, dec("5.332"))
	assert.False(t, below.IsMet)
	assert.True(t, dec("5.33").Equal(below.TargetValue), below.TargetValue.String())
	assert.True(t, dec("5.33").Equal(below.Thresholds[0].From))

	above := ResolveBonus(bonus, Attendance{Shifts: 8}, 15, dec("5.334"))
	assert.True(t, above.IsMet)
	assert.Equal(t, "bronze", above.MatchedTier)
}

func TestResolveBonus_ZeroTargetProgress(t *testing.T) {
	bonus := mustBonus(t, `{"metric_key":"total_hours","type":"FLAT","target_per_shift":0,"reward_value":10}`)

	status := ResolveBonus(bonus, Attendance{Shifts: 2}, 15, decimal.Zero)

	assert.True(t, status.IsMet)
	assert.True(t, dec("100").Equal(status.ProgressPercent))
}

func TestStandardShifts(t *testing.T) {
	scheme := compensation.Scheme{StandardMonthlyShifts: intPtr(20)}

	assert.Equal(t, 12, StandardShifts(compensation.Assignment{StandardMonthlyShifts: intPtr(12)}, scheme, 15))
	assert.Equal(t, 20, StandardShifts(compensation.Assignment{}, scheme, 15))
	assert.Equal(t, 18, StandardShifts(compensation.Assignment{}, compensation.Scheme{}, 18))
	assert.Equal(t, DefaultStandardShifts, StandardShifts(compensation.Assignment{StandardMonthlyShifts: intPtr(0)}, compensation.Scheme{}, 0))
}

func TestScaleTarget(t *testing.T) {
	assert.True(t, dec("10").Equal(ScaleTarget(dec("30"), compensation.BonusModeMonth, 5, 15)))
	assert.True(t, dec("150").Equal(ScaleTarget(dec("30"), compensation.BonusModeShift, 5, 15)))
	assert.True(t, dec("10").Equal(ScaleTarget(dec("30"), compensation.BonusModeMonth, 5, 0)))
	assert.True(t, ScaleTarget(dec("30"), compensation.BonusModeMonth, 0, 15).IsZero())
}

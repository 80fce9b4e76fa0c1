package compensation

import (
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/money"
	"github.com/shopspring/decimal"
)

// DefaultStandardShifts is the monthly baseline used when neither the
// assignment nor the scheme sets one.
const DefaultStandardShifts = 15

var hundred = decimal.NewFromInt(100)

// Attendance - worked and planned shifts of an employee month
type Attendance struct {
	Shifts  int
	Planned int
}

// StandardShifts picks the proration baseline: assignment, then scheme, then fallback.
func StandardShifts(assignment compensation.Assignment, scheme compensation.Scheme, fallback int) int {
	if assignment.StandardMonthlyShifts != nil && *assignment.StandardMonthlyShifts > 0 {
		return *assignment.StandardMonthlyShifts
	}
	if scheme.StandardMonthlyShifts != nil && *scheme.StandardMonthlyShifts > 0 {
		return *scheme.StandardMonthlyShifts
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultStandardShifts
}

// ScaleTarget scales a per-shift value to the attendance of the month and
// rounds it for display. SHIFT mode grows linearly with shifts, MONTH mode is
// prorated against the standard baseline.
func ScaleTarget(value decimal.Decimal, mode compensation.BonusMode, shifts, standard int) decimal.Decimal {
	return money.Round2(scaleExact(value, mode, shifts, standard))
}

// scaleExact is ScaleTarget without rounding; targets are compared on it.
func scaleExact(value decimal.Decimal, mode compensation.BonusMode, shifts, standard int) decimal.Decimal {
	n := decimal.NewFromInt(int64(shifts))
	if mode == compensation.BonusModeShift {
		return value.Mul(n)
	}
	if standard <= 0 {
		standard = DefaultStandardShifts
	}
	return value.Mul(n).Div(decimal.NewFromInt(int64(standard)))
}

// ResolveBonus computes the KPI state of one bonus for one employee month.
func ResolveBonus(bonus compensation.PeriodBonus, att Attendance, standard int, current decimal.Decimal) compensation.BonusStatus {
	status := compensation.BonusStatus{
		BonusID:   bonus.ID,
		Label:     bonus.Label,
		MetricKey: bonus.MetricKey,
		Mode:      bonus.Mode,
	}
	if bonus.Rule != nil {
		status.Kind = bonus.Rule.Kind()
	}

	// with no worked shifts targets are shown against the schedule
	scaleBy := att.Shifts
	if att.Shifts <= 0 {
		scaleBy = att.Planned
		current = decimal.Zero
	}
	status.CurrentValue = current

	switch rule := bonus.Rule.(type) {
	case compensation.FlatRule:
		target := scaleExact(rule.TargetPerShift, bonus.Mode, scaleBy, standard)
		status.TargetValue = money.Round2(target)
		status.IsMet = att.Shifts > 0 && current.GreaterThanOrEqual(target)
		status.RewardType = bonus.Reward.Type
		status.RewardValue = bonus.Reward.Value

	case compensation.ProgressiveRule:
		resolveProgressive(&status, rule, bonus.Mode, att, scaleBy, standard)

	default:
		// unknown rules never pay
		status.RewardType = compensation.RewardFixed
		status.RewardValue = decimal.Zero
	}

	status.ProgressPercent = progressPercent(status.CurrentValue, status.TargetValue, att.Shifts)
	return status
}

func resolveProgressive(status *compensation.BonusStatus, rule compensation.ProgressiveRule, mode compensation.BonusMode, att Attendance, scaleBy, standard int) {
	thresholds := make([]compensation.Threshold, len(rule.Thresholds))
	copy(thresholds, rule.Thresholds)
	compensation.SortThresholds(thresholds)

	exact := make([]decimal.Decimal, len(thresholds))
	scaled := make([]compensation.ScaledThreshold, len(thresholds))
	for i, t := range thresholds {
		exact[i] = scaleExact(t.From, mode, scaleBy, standard)
		scaled[i] = compensation.ScaledThreshold{
			From:    money.Round2(exact[i]),
			Percent: t.Percent,
			Label:   t.Label,
		}
	}
	status.Thresholds = scaled
	status.RewardType = compensation.RewardPercent
	status.RewardValue = decimal.Zero

	if len(scaled) == 0 {
		return
	}

	matched := -1
	if att.Shifts > 0 {
		for i := len(scaled) - 1; i >= 0; i-- {
			if exact[i].LessThanOrEqual(status.CurrentValue) {
				matched = i
				break
			}
		}
	}

	if matched < 0 {
		status.TargetValue = scaled[0].From
		return
	}

	tier := scaled[matched]
	status.IsMet = true
	status.RewardValue = tier.Percent
	status.MatchedTier = tier.Label
	if status.MatchedTier == "" {
		status.MatchedTier = tier.From.String()
	}
	if matched+1 < len(scaled) {
		status.TargetValue = scaled[matched+1].From
	} else {
		status.TargetValue = tier.From
	}
}

func progressPercent(current, target decimal.Decimal, shifts int) decimal.Decimal {
	if target.IsPositive() {
		return money.Round2(current.Div(target).Mul(hundred))
	}
	if shifts > 0 {
		return hundred
	}
	return decimal.Zero
}

package compensation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// BonusMode enum
type BonusMode string

const (
	BonusModeMonth BonusMode = "MONTH"
	BonusModeShift BonusMode = "SHIFT"
)

// BonusKind enum
type BonusKind string

const (
	BonusKindFlat        BonusKind = "FLAT"
	BonusKindProgressive BonusKind = "PROGRESSIVE"
)

// RewardType enum
type RewardType string

const (
	RewardFixed   RewardType = "FIXED"
	RewardPercent RewardType = "PERCENT"
)

// Reward - what a met bonus pays
type Reward struct {
	Type  RewardType
	Value decimal.Decimal
}

// Threshold - one tier of a progressive ladder
type Threshold struct {
	From    decimal.Decimal `json:"from"`
	Percent decimal.Decimal `json:"percent"`
	Label   string          `json:"label,omitempty"`
}

// BonusRule is either a FlatRule or a ProgressiveRule.
type BonusRule interface {
	Kind() BonusKind
	isBonusRule()
}

// FlatRule - single target expressed per shift
type FlatRule struct {
	TargetPerShift decimal.Decimal
}

func (FlatRule) Kind() BonusKind { return BonusKindFlat }
func (FlatRule) isBonusRule()    {}

// ProgressiveRule - tier ladder, thresholds sorted ascending by From
type ProgressiveRule struct {
	Thresholds []Threshold
}

func (ProgressiveRule) Kind() BonusKind { return BonusKindProgressive }
func (ProgressiveRule) isBonusRule()    {}

// PeriodBonus - validated incentive definition of a scheme
type PeriodBonus struct {
	ID        string
	Label     string
	MetricKey string
	Mode      BonusMode
	Rule      BonusRule
	Reward    Reward
}

// bonusDefinition is the stored JSON shape. Numbers may arrive as strings.
type bonusDefinition struct {
	ID             string                `json:"id,omitempty"`
	Label          string                `json:"label,omitempty"`
	MetricKey      string                `json:"metric_key"`
	BonusMode      string                `json:"bonus_mode,omitempty"`
	Type           string                `json:"type"`
	TargetPerShift interface{}           `json:"target_per_shift,omitempty"`
	Thresholds     []thresholdDefinition `json:"thresholds,omitempty"`
	RewardType     string                `json:"reward_type,omitempty"`
	RewardValue    interface{}           `json:"reward_value,omitempty"`
}

type thresholdDefinition struct {
	From    interface{} `json:"from"`
	Percent interface{} `json:"percent"`
	Label   string      `json:"label,omitempty"`
}

// ParsePeriodBonus validates a raw bonus definition into the closed union.
func ParsePeriodBonus(raw json.RawMessage) (PeriodBonus, error) {
	var def bonusDefinition
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&def); err != nil {
		return PeriodBonus{}, fmt.Errorf("%w: %v", ErrInvalidBonus, err)
	}
	return def.toPeriodBonus()
}

func (d bonusDefinition) toPeriodBonus() (PeriodBonus, error) {
	var errs validator.ValidationErrors

	metricKey := strings.TrimSpace(d.MetricKey)
	if metricKey == "" {
		errs = append(errs, validator.ValidationError{Field: "metric_key", Message: "is required"})
	}

	mode := BonusMode(strings.ToUpper(strings.TrimSpace(d.BonusMode)))
	if mode == "" {
		mode = BonusModeMonth
	}
	if mode != BonusModeMonth && mode != BonusModeShift {
		errs = append(errs, validator.ValidationError{Field: "bonus_mode", Message: "must be 'MONTH' or 'SHIFT'"})
	}

	bonus := PeriodBonus{
		ID:        d.ID,
		Label:     d.Label,
		MetricKey: metricKey,
		Mode:      mode,
	}
	if bonus.ID == "" {
		bonus.ID = metricKey
	}
	if bonus.Label == "" {
		bonus.Label = metricKey
	}

	kind := BonusKind(strings.ToUpper(strings.TrimSpace(d.Type)))
	if kind == "" {
		kind = BonusKindFlat
	}

	switch kind {
	case BonusKindFlat:
		target, ok := money.Parse(d.TargetPerShift)
		if !ok || target.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "target_per_shift", Message: "must be a non-negative number"})
		}
		bonus.Rule = FlatRule{TargetPerShift: target}

		rewardType := RewardType(strings.ToUpper(strings.TrimSpace(d.RewardType)))
		if rewardType == "" {
			rewardType = RewardFixed
		}
		if rewardType != RewardFixed && rewardType != RewardPercent {
			errs = append(errs, validator.ValidationError{Field: "reward_type", Message: "must be 'FIXED' or 'PERCENT'"})
		}
		value, ok := money.Parse(d.RewardValue)
		if !ok || value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "reward_value", Message: "must be a non-negative number"})
		}
		bonus.Reward = Reward{Type: rewardType, Value: value}

	case BonusKindProgressive:
		if len(d.Thresholds) == 0 {
			errs = append(errs, validator.ValidationError{Field: "thresholds", Message: "at least one threshold is required"})
		}
		thresholds := make([]Threshold, 0, len(d.Thresholds))
		for i, t := range d.Thresholds {
			from, okFrom := money.Parse(t.From)
			percent, okPercent := money.Parse(t.Percent)
			if !okFrom || from.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("thresholds[%d].from", i), Message: "must be a non-negative number"})
			}
			if !okPercent || percent.IsNegative() {
				errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("thresholds[%d].percent", i), Message: "must be a non-negative number"})
			}
			thresholds = append(thresholds, Threshold{From: from, Percent: percent, Label: t.Label})
		}
		SortThresholds(thresholds)
		bonus.Rule = ProgressiveRule{Thresholds: thresholds}
		// tiers always pay a percentage of the metric
		bonus.Reward = Reward{Type: RewardPercent, Value: decimal.Zero}

	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'FLAT' or 'PROGRESSIVE'"})
	}

	if len(errs) > 0 {
		return PeriodBonus{}, fmt.Errorf("%w: %w", ErrInvalidBonus, errs)
	}
	return bonus, nil
}

// SortThresholds orders tiers ascending by From, keeping input order for ties.
func SortThresholds(thresholds []Threshold) {
	sort.SliceStable(thresholds, func(i, j int) bool {
		return thresholds[i].From.LessThan(thresholds[j].From)
	})
}

// MarshalJSON writes the stored definition shape.
func (b PeriodBonus) MarshalJSON() ([]byte, error) {
	def := bonusDefinition{
		ID:        b.ID,
		Label:     b.Label,
		MetricKey: b.MetricKey,
		BonusMode: string(b.Mode),
	}
	switch rule := b.Rule.(type) {
	case FlatRule:
		def.Type = string(BonusKindFlat)
		def.TargetPerShift = rule.TargetPerShift
		def.RewardType = string(b.Reward.Type)
		def.RewardValue = b.Reward.Value
	case ProgressiveRule:
		def.Type = string(BonusKindProgressive)
		for _, t := range rule.Thresholds {
			def.Thresholds = append(def.Thresholds, thresholdDefinition{From: t.From, Percent: t.Percent, Label: t.Label})
		}
	default:
		return nil, ErrInvalidBonus
	}
	return json.Marshal(def)
}

// UnmarshalJSON validates through ParsePeriodBonus.
func (b *PeriodBonus) UnmarshalJSON(data []byte) error {
	parsed, err := ParsePeriodBonus(data)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBonuses validates every raw definition, splitting accepted from rejected.
func ParseBonuses(raws []json.RawMessage) ([]PeriodBonus, []RejectedBonus) {
	bonuses := make([]PeriodBonus, 0, len(raws))
	var rejected []RejectedBonus
	for i, raw := range raws {
		b, err := ParsePeriodBonus(raw)
		if err != nil {
			rejected = append(rejected, RejectedBonus{Index: i, Raw: raw, Err: err})
			continue
		}
		bonuses = append(bonuses, b)
	}
	return bonuses, rejected
}

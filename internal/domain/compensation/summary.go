package compensation

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ScaledThreshold - threshold after attendance scaling
type ScaledThreshold struct {
	From    decimal.Decimal `json:"from"`
	Percent decimal.Decimal `json:"percent"`
	Label   string          `json:"label,omitempty"`
}

// BonusStatus - resolved KPI state of one period bonus for one employee month
type BonusStatus struct {
	BonusID         string            `json:"bonus_id"`
	Label           string            `json:"label"`
	MetricKey       string            `json:"metric_key"`
	Mode            BonusMode         `json:"bonus_mode"`
	Kind            BonusKind         `json:"type"`
	Thresholds      []ScaledThreshold `json:"thresholds,omitempty"`
	TargetValue     decimal.Decimal   `json:"target_value"`
	CurrentValue    decimal.Decimal   `json:"current_value"`
	IsMet           bool              `json:"is_met"`
	RewardValue     decimal.Decimal   `json:"reward_value"`
	RewardType      RewardType        `json:"reward_type"`
	ProgressPercent decimal.Decimal   `json:"progress_percent"`
	MatchedTier     string            `json:"matched_tier,omitempty"`
}

// DataIssue - a value that could not be parsed and was counted as zero
type DataIssue struct {
	ShiftID string `json:"shift_id,omitempty"`
	Key     string `json:"key"`
	Raw     string `json:"raw"`
}

// EvaluationSummary - evaluation values injected into the metrics
type EvaluationSummary struct {
	AverageScore decimal.Decimal `json:"average_score"`
	Count        int             `json:"count"`
}

// ShiftSummary - one shift line of an employee summary
type ShiftSummary struct {
	ID               string                     `json:"id"`
	CheckIn          time.Time                  `json:"check_in"`
	CheckOut         *time.Time                 `json:"check_out,omitempty"`
	Status           ShiftStatus                `json:"status"`
	IsActive         bool                       `json:"is_active"`
	IsFrozen         bool                       `json:"is_frozen"`
	PaidAt           *time.Time                 `json:"paid_at,omitempty"`
	TotalHours       decimal.Decimal            `json:"total_hours"`
	TotalRevenue     decimal.Decimal            `json:"total_revenue"`
	CalculatedSalary decimal.Decimal            `json:"calculated_salary"`
	SalaryBreakdown  json.RawMessage            `json:"salary_breakdown,omitempty"`
	Metrics          map[string]decimal.Decimal `json:"metrics,omitempty"`
}

// EmployeeSummary - derived pay summary for one employee month, never persisted
type EmployeeSummary struct {
	EmployeeID         string                     `json:"employee_id"`
	FullName           string                     `json:"full_name"`
	Role               string                     `json:"role,omitempty"`
	SchemeID           string                     `json:"scheme_id,omitempty"`
	SchemeVersion      int                        `json:"scheme_version,omitempty"`
	ShiftsCount        int                        `json:"shifts_count"`
	PlannedShifts      int                        `json:"planned_shifts"`
	TotalHours         decimal.Decimal            `json:"total_hours"`
	TotalRevenue       decimal.Decimal            `json:"total_revenue"`
	AvgRevenuePerShift decimal.Decimal            `json:"avg_revenue_per_shift"`
	TotalAccrued       decimal.Decimal            `json:"total_accrued"`
	TotalPaid          decimal.Decimal            `json:"total_paid"`
	Balance            decimal.Decimal            `json:"balance"`
	MaintenanceBonus   decimal.Decimal            `json:"maintenance_bonus"`
	Evaluation         EvaluationSummary          `json:"evaluation"`
	BonusesStatus      []BonusStatus              `json:"bonuses_status"`
	MonthlyMetrics     map[string]decimal.Decimal `json:"monthly_metrics"`
	MetricCatalog      map[string]MetricInfo      `json:"metric_catalog,omitempty"`
	Shifts             []ShiftSummary             `json:"shifts"`
	Payments           []PaymentRecord            `json:"payments"`
	DataIssues         []DataIssue                `json:"data_issues,omitempty"`
}

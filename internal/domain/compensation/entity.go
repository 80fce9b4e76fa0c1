package compensation

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Scheme - Versioned compensation configuration assigned to employees
type Scheme struct {
	ID                    string
	ClubID                string
	Name                  string
	Version               int
	Base                  BaseFormula
	Bonuses               []PeriodBonus
	StandardMonthlyShifts *int
	CreatedAt             time.Time

	// Bonus definitions that failed validation when the scheme was loaded
	Rejected []RejectedBonus
}

// BaseFormula - per-shift base pay rule
type BaseFormula struct {
	HourlyRate     decimal.Decimal `json:"hourly_rate"`
	ShiftRate      decimal.Decimal `json:"shift_rate"`
	RevenuePercent decimal.Decimal `json:"revenue_percent"`
}

// RejectedBonus keeps the raw definition and the reason it was dropped.
type RejectedBonus struct {
	Index int
	Raw   json.RawMessage
	Err   error
}

// ShiftStatus enum
type ShiftStatus string

const (
	ShiftStatusActive   ShiftStatus = "ACTIVE"
	ShiftStatusClosed   ShiftStatus = "CLOSED"
	ShiftStatusPaid     ShiftStatus = "PAID"
	ShiftStatusVerified ShiftStatus = "VERIFIED"
)

// SummaryStatuses are the shift statuses loaded for a period summary.
var SummaryStatuses = []ShiftStatus{
	ShiftStatusClosed,
	ShiftStatusPaid,
	ShiftStatusVerified,
	ShiftStatusActive,
}

// IsFinished reports whether the shift has been clocked out.
func (s ShiftStatus) IsFinished() bool {
	return s == ShiftStatusClosed || s == ShiftStatusPaid || s == ShiftStatusVerified
}

// Shift - one clock-in/clock-out record
type Shift struct {
	ID         string
	ClubID     string
	EmployeeID string
	CheckIn    time.Time
	CheckOut   *time.Time
	Status     ShiftStatus

	// Raw column values; legacy rows store these as text
	TotalHours *string
	CashIncome *string
	CardIncome *string

	// Open metric blob from the shift report form
	ReportData map[string]interface{}

	CalculatedSalary *decimal.Decimal
	SalaryBreakdown  json.RawMessage
	SalarySnapshot   *SalarySnapshot
}

// IsFrozen reports whether the shift pay was locked by a payout.
func (s Shift) IsFrozen() bool {
	if s.Status == ShiftStatusPaid {
		return true
	}
	return s.SalarySnapshot != nil && s.SalarySnapshot.PaidAt != nil
}

// SalarySnapshot - payout lock stored with the shift
type SalarySnapshot struct {
	PaidAt   *time.Time `json:"paid_at,omitempty"`
	PaidBy   string     `json:"paid_by,omitempty"`
	PayoutID string     `json:"payout_id,omitempty"`
}

// SnapshotWrite - values persisted together by the payout commit
type SnapshotWrite struct {
	ShiftID          string
	CalculatedSalary decimal.Decimal
	SalaryBreakdown  json.RawMessage
	Snapshot         SalarySnapshot
}

// Assignment - employee with an active scheme assignment
type Assignment struct {
	EmployeeID            string
	FullName              string
	Role                  string
	SchemeID              string
	StandardMonthlyShifts *int
}

// MetricCategory enum
type MetricCategory string

const (
	CategoryIncome  MetricCategory = "INCOME"
	CategoryExpense MetricCategory = "EXPENSE"
	CategoryOther   MetricCategory = "OTHER"
)

// ParseMetricCategory accepts the category spellings used by report templates.
func ParseMetricCategory(s string) (MetricCategory, bool) {
	switch MetricCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryIncome:
		return CategoryIncome, true
	case CategoryExpense:
		return CategoryExpense, true
	case CategoryOther:
		return CategoryOther, true
	}
	return "", false
}

// ReportField - one field of the club's active report template
type ReportField struct {
	MetricKey   string
	CustomLabel string
	FieldType   string // explicit category override, may be empty
	IsRequired  bool
	IsVisible   bool
	SortOrder   int
}

// MetricDefinition - global metric registry entry
type MetricDefinition struct {
	Key        string
	Label      string
	Category   string
	Type       string // "number", "money", "text"
	IsRequired bool
}

// MetricInfo - resolved classification of a metric key
type MetricInfo struct {
	Key       string         `json:"key"`
	Label     string         `json:"label"`
	Category  MetricCategory `json:"category"`
	IsNumeric bool           `json:"is_numeric"`
}

// EvaluationScore - average checklist score for an employee over a period
type EvaluationScore struct {
	EmployeeID   string
	AverageScore decimal.Decimal
	Count        int
}

// MaintenanceBonus - equipment maintenance rewards for an employee month
type MaintenanceBonus struct {
	EmployeeID  string
	TaskBonus   decimal.Decimal
	ManualBonus decimal.Decimal
}

func (m MaintenanceBonus) Total() decimal.Decimal {
	return m.TaskBonus.Add(m.ManualBonus)
}

// PaymentRecord - salary payment made to an employee
type PaymentRecord struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Comment    *string         `json:"comment,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Well-known metric keys
const (
	MetricCashIncome         = "cash_income"
	MetricCardIncome         = "card_income"
	MetricTotalHours         = "total_hours"
	MetricTotalRevenue       = "total_revenue"
	MetricTotalExpenses      = "total_expenses"
	MetricEvaluationScore    = "evaluation_score"
	MetricEvaluationCount    = "evaluation_count"
	MetricMaintenanceBonus   = "maintenance_bonus"
	MetricShiftsCount        = "shifts_count"
	MetricAvgRevenuePerShift = "avg_revenue_per_shift"
)

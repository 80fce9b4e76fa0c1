package compensation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== SUMMARY DTOs ==========

type SummaryRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidPayrollYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SummaryResponse struct {
	ClubID       string            `json:"club_id"`
	Month        int               `json:"month"`
	Year         int               `json:"year"`
	TotalAccrued decimal.Decimal   `json:"total_accrued"`
	TotalPaid    decimal.Decimal   `json:"total_paid"`
	Employees    []EmployeeSummary `json:"employees"`
}

// NewSummaryResponse wraps employee summaries with club level totals.
func NewSummaryResponse(clubID string, month, year int, employees []EmployeeSummary) SummaryResponse {
	resp := SummaryResponse{
		ClubID:       clubID,
		Month:        month,
		Year:         year,
		TotalAccrued: decimal.Zero,
		TotalPaid:    decimal.Zero,
		Employees:    employees,
	}
	if resp.Employees == nil {
		resp.Employees = []EmployeeSummary{}
	}
	for _, e := range employees {
		resp.TotalAccrued = resp.TotalAccrued.Add(e.TotalAccrued)
		resp.TotalPaid = resp.TotalPaid.Add(e.TotalPaid)
	}
	return resp
}

// ========== PAYOUT DTOs ==========

type PayoutRequest struct {
	Month    int      `json:"month"`
	Year     int      `json:"year"`
	ShiftIDs []string `json:"shift_ids"`
	PaidBy   string   `json:"-"`
}

func (r *PayoutRequest) Validate() error {
	var errs validator.ValidationErrors

	period := SummaryRequest{Month: r.Month, Year: r.Year}
	if err := period.Validate(); err != nil {
		var periodErrs validator.ValidationErrors
		if errors.As(err, &periodErrs) {
			errs = append(errs, periodErrs...)
		}
	}
	if len(r.ShiftIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "shift_ids", Message: "at least one shift is required"})
	}
	for i, id := range r.ShiftIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("shift_ids[%d]", i), Message: "must be a valid UUID"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayoutResponse struct {
	PayoutID    string          `json:"payout_id"`
	ShiftCount  int             `json:"shift_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAt      time.Time       `json:"paid_at"`
}

// ========== SCHEME DTOs ==========

type CreateSchemeRequest struct {
	Name                  string            `json:"name"`
	Base                  BaseFormula       `json:"base"`
	Bonuses               []json.RawMessage `json:"bonuses"`
	StandardMonthlyShifts *int              `json:"standard_monthly_shifts,omitempty"`
}

// Validate checks the request and returns the parsed bonuses.
func (r *CreateSchemeRequest) Validate() ([]PeriodBonus, error) {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if r.Base.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base.hourly_rate", Message: "must be non-negative"})
	}
	if r.Base.ShiftRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "base.shift_rate", Message: "must be non-negative"})
	}
	if r.Base.RevenuePercent.IsNegative() || r.Base.RevenuePercent.GreaterThan(decimal.NewFromInt(100)) {
		errs = append(errs, validator.ValidationError{Field: "base.revenue_percent", Message: "must be between 0 and 100"})
	}
	if r.StandardMonthlyShifts != nil && *r.StandardMonthlyShifts <= 0 {
		errs = append(errs, validator.ValidationError{Field: "standard_monthly_shifts", Message: "must be positive"})
	}

	bonuses := make([]PeriodBonus, 0, len(r.Bonuses))
	for i, raw := range r.Bonuses {
		b, err := ParsePeriodBonus(raw)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("bonuses[%d]", i),
				Message: strings.TrimPrefix(err.Error(), ErrInvalidBonus.Error()+": "),
			})
			continue
		}
		bonuses = append(bonuses, b)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return bonuses, nil
}

type SchemeResponse struct {
	ID                    string        `json:"id"`
	ClubID                string        `json:"club_id"`
	Name                  string        `json:"name"`
	Version               int           `json:"version"`
	Base                  BaseFormula   `json:"base"`
	Bonuses               []PeriodBonus `json:"bonuses"`
	StandardMonthlyShifts *int          `json:"standard_monthly_shifts,omitempty"`
	CreatedAt             string        `json:"created_at"`
}

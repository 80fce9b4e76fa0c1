package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

// ========== SCHEDULE ==========

type scheduleRepository struct {
	db *database.DB
}

func NewScheduleRepository(db *database.DB) compensation.ScheduleProvider {
	return &scheduleRepository{db: db}
}

func (r *scheduleRepository) CountPlannedShifts(ctx context.Context, clubID string, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM work_schedules
		WHERE club_id = $1
		  AND employee_id = $2
		  AND date BETWEEN $3::date AND $4::date
	`

	var count int
	if err := q.QueryRow(ctx, query, clubID, employeeID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count planned shifts: %w", err)
	}
	return count, nil
}

// ========== PAYMENTS ==========

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) compensation.PaymentLedger {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) ListPayments(ctx context.Context, clubID string, employeeID string, month, year int) ([]compensation.PaymentRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, month, year, comment, created_at
		FROM salary_payments
		WHERE club_id = $1 AND employee_id = $2 AND month = $3 AND year = $4
		ORDER BY created_at ASC, id ASC
	`

	rows, err := q.Query(ctx, query, clubID, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	var payments []compensation.PaymentRecord
	for rows.Next() {
		var p compensation.PaymentRecord
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Amount, &p.Month, &p.Year, &p.Comment, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salary payments: %w", err)
	}

	return payments, nil
}

// ========== EVALUATIONS ==========

type evaluationRepository struct {
	db *database.DB
}

func NewEvaluationRepository(db *database.DB) compensation.EvaluationService {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) GetAverage(ctx context.Context, clubID string, employeeID string, from, to time.Time) (compensation.EvaluationScore, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(ROUND(AVG(score), 2), 0), COUNT(*)
		FROM shift_evaluations
		WHERE club_id = $1
		  AND employee_id = $2
		  AND created_at BETWEEN $3 AND $4
	`

	score := compensation.EvaluationScore{EmployeeID: employeeID}
	if err := q.QueryRow(ctx, query, clubID, employeeID, from, to).Scan(&score.AverageScore, &score.Count); err != nil {
		return compensation.EvaluationScore{}, fmt.Errorf("failed to get evaluation average: %w", err)
	}
	return score, nil
}

// ========== MAINTENANCE ==========

type maintenanceRepository struct {
	db *database.DB
}

func NewMaintenanceRepository(db *database.DB) compensation.MaintenanceService {
	return &maintenanceRepository{db: db}
}

func (r *maintenanceRepository) GetBonus(ctx context.Context, clubID string, employeeID string, month, year int) (compensation.MaintenanceBonus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COALESCE((
				SELECT SUM(bonus_amount)
				FROM maintenance_tasks
				WHERE club_id = $1
				  AND assigned_to = $2
				  AND status = 'COMPLETED'
				  AND EXTRACT(MONTH FROM completed_at) = $3
				  AND EXTRACT(YEAR FROM completed_at) = $4
			), 0),
			COALESCE((
				SELECT SUM(amount)
				FROM maintenance_monthly_bonuses
				WHERE club_id = $1 AND employee_id = $2 AND month = $3 AND year = $4
			), 0)
	`

	bonus := compensation.MaintenanceBonus{EmployeeID: employeeID}
	if err := q.QueryRow(ctx, query, clubID, employeeID, month, year).Scan(&bonus.TaskBonus, &bonus.ManualBonus); err != nil {
		return compensation.MaintenanceBonus{}, fmt.Errorf("failed to get maintenance bonus: %w", err)
	}
	return bonus, nil
}

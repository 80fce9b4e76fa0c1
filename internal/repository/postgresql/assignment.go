package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

type assignmentRepository struct {
	db *database.DB
}

func NewAssignmentRepository(db *database.DB) compensation.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListActive(ctx context.Context, clubID string) ([]compensation.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.full_name, e.role, a.scheme_id, a.standard_monthly_shifts
		FROM employee_scheme_assignments a
		JOIN employees e ON e.id = a.employee_id AND e.club_id = a.club_id
		WHERE a.club_id = $1
		  AND a.is_active = TRUE
		  AND e.is_active = TRUE
		ORDER BY e.full_name ASC, e.id ASC
	`

	rows, err := q.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheme assignments: %w", err)
	}
	defer rows.Close()

	var assignments []compensation.Assignment
	for rows.Next() {
		var a compensation.Assignment
		if err := rows.Scan(&a.EmployeeID, &a.FullName, &a.Role, &a.SchemeID, &a.StandardMonthlyShifts); err != nil {
			return nil, fmt.Errorf("failed to scan scheme assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheme assignments: %w", err)
	}

	return assignments, nil
}

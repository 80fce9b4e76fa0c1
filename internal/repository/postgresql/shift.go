package postgresql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) compensation.ShiftStore {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) ListByClubPeriod(ctx context.Context, clubID string, from, to time.Time, statuses []compensation.ShiftStatus) ([]compensation.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, club_id, employee_id, check_in, check_out, status,
			   total_hours::text, cash_income::text, card_income::text,
			   report_data, calculated_salary, salary_breakdown, salary_snapshot
		FROM shifts
		WHERE club_id = $1
		  AND check_in BETWEEN $2 AND $3
		  AND status = ANY($4)
		ORDER BY check_in ASC, id ASC
	`

	statusNames := make([]string, len(statuses))
	for i, s := range statuses {
		statusNames[i] = string(s)
	}

	rows, err := q.Query(ctx, query, clubID, from, to, statusNames)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []compensation.Shift
	for rows.Next() {
		var (
			s          compensation.Shift
			status     string
			reportData []byte
			salary     decimal.NullDecimal
			breakdown  []byte
			snapshot   []byte
		)
		err := rows.Scan(
			&s.ID, &s.ClubID, &s.EmployeeID, &s.CheckIn, &s.CheckOut, &status,
			&s.TotalHours, &s.CashIncome, &s.CardIncome,
			&reportData, &salary, &breakdown, &snapshot,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}

		s.Status = compensation.ShiftStatus(status)
		s.ReportData = decodeReportData(ctx, s.ID, reportData)
		if salary.Valid {
			v := salary.Decimal
			s.CalculatedSalary = &v
		}
		if len(breakdown) > 0 {
			s.SalaryBreakdown = json.RawMessage(breakdown)
		}
		if len(snapshot) > 0 {
			var snap compensation.SalarySnapshot
			if err := json.Unmarshal(snapshot, &snap); err != nil {
				return nil, fmt.Errorf("failed to decode salary snapshot of shift %s: %w", s.ID, err)
			}
			s.SalarySnapshot = &snap
		}

		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shifts: %w", err)
	}

	return shifts, nil
}

// decodeReportData keeps numbers as json.Number so money values do not pass
// through float64. A malformed blob is logged and read as empty.
func decodeReportData(ctx context.Context, shiftID string, raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data map[string]interface{}
	if err := dec.Decode(&data); err != nil {
		slog.WarnContext(ctx, "malformed report_data, treating as empty",
			"shift_id", shiftID,
			"error", err,
		)
		return nil
	}
	return data
}

func (r *shiftRepository) SaveSnapshots(ctx context.Context, clubID string, writes []compensation.SnapshotWrite) error {
	if len(writes) == 0 {
		return nil
	}

	// A shift whose snapshot already carries paid_at is never overwritten.
	query := `
		UPDATE shifts
		SET calculated_salary = $1,
			salary_breakdown = $2,
			salary_snapshot = $3,
			status = 'PAID'
		WHERE id = $4
		  AND club_id = $5
		  AND status <> 'ACTIVE'
		  AND (salary_snapshot IS NULL OR salary_snapshot->>'paid_at' IS NULL)
	`

	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, w := range writes {
			snapshot, err := json.Marshal(w.Snapshot)
			if err != nil {
				return fmt.Errorf("failed to encode snapshot of shift %s: %w", w.ShiftID, err)
			}
			batch.Queue(query, w.CalculatedSalary, []byte(w.SalaryBreakdown), snapshot, w.ShiftID, clubID)
		}

		results := tx.SendBatch(ctx, batch)
		for _, w := range writes {
			tag, err := results.Exec()
			if err != nil {
				results.Close()
				return fmt.Errorf("failed to save snapshot of shift %s: %w", w.ShiftID, err)
			}
			if tag.RowsAffected() != 1 {
				results.Close()
				return fmt.Errorf("%w: %s", compensation.ErrSnapshotConflict, w.ShiftID)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close snapshot batch: %w", err)
		}
		return nil
	})
}

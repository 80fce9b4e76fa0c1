package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type schemeRepository struct {
	db *database.DB
}

func NewSchemeRepository(db *database.DB) compensation.SchemeRepository {
	return &schemeRepository{db: db}
}

const schemeColumns = `
	id, club_id, name, version, hourly_rate, shift_rate, revenue_percent,
	bonuses, standard_monthly_shifts, created_at
`

func (r *schemeRepository) GetByID(ctx context.Context, id string, clubID string) (compensation.Scheme, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + schemeColumns + `
		FROM compensation_schemes
		WHERE id = $1 AND club_id = $2
	`

	scheme, err := scanScheme(ctx, q.QueryRow(ctx, query, id, clubID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Scheme{}, compensation.ErrSchemeNotFound
		}
		return compensation.Scheme{}, fmt.Errorf("failed to get compensation scheme: %w", err)
	}
	return scheme, nil
}

func (r *schemeRepository) GetLatestByName(ctx context.Context, name string, clubID string) (compensation.Scheme, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + schemeColumns + `
		FROM compensation_schemes
		WHERE club_id = $1 AND name = $2
		ORDER BY version DESC
		LIMIT 1
	`

	scheme, err := scanScheme(ctx, q.QueryRow(ctx, query, clubID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return compensation.Scheme{}, compensation.ErrSchemeNotFound
		}
		return compensation.Scheme{}, fmt.Errorf("failed to get latest compensation scheme: %w", err)
	}
	return scheme, nil
}

func (r *schemeRepository) CreateVersion(ctx context.Context, scheme compensation.Scheme) (compensation.Scheme, error) {
	q := GetQuerier(ctx, r.db)

	bonuses := scheme.Bonuses
	if bonuses == nil {
		bonuses = []compensation.PeriodBonus{}
	}
	encoded, err := json.Marshal(bonuses)
	if err != nil {
		return compensation.Scheme{}, fmt.Errorf("failed to encode scheme bonuses: %w", err)
	}

	query := `
		INSERT INTO compensation_schemes (
			id, club_id, name, version, hourly_rate, shift_rate, revenue_percent,
			bonuses, standard_monthly_shifts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + schemeColumns

	created, err := scanScheme(ctx, q.QueryRow(ctx, query,
		scheme.ID, scheme.ClubID, scheme.Name, scheme.Version,
		scheme.Base.HourlyRate, scheme.Base.ShiftRate, scheme.Base.RevenuePercent,
		encoded, scheme.StandardMonthlyShifts,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return compensation.Scheme{}, compensation.ErrVersionConflict
		}
		return compensation.Scheme{}, fmt.Errorf("failed to create compensation scheme: %w", err)
	}
	return created, nil
}

// scanScheme parses stored bonus definitions leniently. Definitions that no
// longer validate are kept on Scheme.Rejected instead of failing the load.
func scanScheme(ctx context.Context, row pgx.Row) (compensation.Scheme, error) {
	var (
		s       compensation.Scheme
		bonuses []byte
	)
	err := row.Scan(
		&s.ID, &s.ClubID, &s.Name, &s.Version,
		&s.Base.HourlyRate, &s.Base.ShiftRate, &s.Base.RevenuePercent,
		&bonuses, &s.StandardMonthlyShifts, &s.CreatedAt,
	)
	if err != nil {
		return compensation.Scheme{}, err
	}

	var raws []json.RawMessage
	if len(bonuses) > 0 {
		if err := json.Unmarshal(bonuses, &raws); err != nil {
			slog.WarnContext(ctx, "scheme bonuses are not a JSON array, ignoring them",
				"scheme_id", s.ID,
				"error", err,
			)
			s.Rejected = []compensation.RejectedBonus{{Index: -1, Raw: bonuses, Err: err}}
			return s, nil
		}
	}
	s.Bonuses, s.Rejected = compensation.ParseBonuses(raws)
	return s, nil
}

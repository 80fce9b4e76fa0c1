package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/repository/postgresql"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// testDatabase connects to TEST_DATABASE_URL and applies the schema. Tests
// are skipped when the variable is not set.
func testDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping repository tests")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.EnsureSchema(ctx, db))
	require.NoError(t, truncateAllTables(ctx, db))
	return db
}

func truncateAllTables(ctx context.Context, db *database.DB) error {
	tables := []string{
		"maintenance_monthly_bonuses",
		"maintenance_tasks",
		"shift_evaluations",
		"salary_payments",
		"work_schedules",
		"metric_definitions",
		"report_templates",
		"shifts",
		"employee_scheme_assignments",
		"compensation_schemes",
		"employees",
	}

	return postgresql.WithTransaction(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

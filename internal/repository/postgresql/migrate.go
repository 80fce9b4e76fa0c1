package postgresql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// EnsureSchema applies the embedded schema files in name order. Every
// statement is idempotent so it is safe to run on each start.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	names, err := fs.Glob(schemaFiles, "schema/*.sql")
	if err != nil {
		return fmt.Errorf("list schema files: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := schemaFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		slog.InfoContext(ctx, "schema applied", "file", name)
	}
	return nil
}

package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reportTemplateRepository struct {
	db *database.DB
}

func NewReportTemplateRepository(db *database.DB) compensation.SchemaProvider {
	return &reportTemplateRepository{db: db}
}

// templateSchema is the stored shape of report_templates.schema
type templateSchema struct {
	Fields []struct {
		MetricKey   string `json:"metric_key"`
		CustomLabel string `json:"custom_label"`
		FieldType   string `json:"field_type"`
		IsRequired  bool   `json:"is_required"`
		IsVisible   *bool  `json:"is_visible"`
		SortOrder   int    `json:"order_index"`
	} `json:"fields"`
}

func (r *reportTemplateRepository) GetActiveSchema(ctx context.Context, clubID string) ([]compensation.ReportField, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT schema
		FROM report_templates
		WHERE club_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var raw []byte
	if err := q.QueryRow(ctx, query, clubID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, compensation.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get active report template: %w", err)
	}

	var schema templateSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to decode report template schema: %w", err)
	}

	fields := make([]compensation.ReportField, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		visible := true
		if f.IsVisible != nil {
			visible = *f.IsVisible
		}
		fields = append(fields, compensation.ReportField{
			MetricKey:   f.MetricKey,
			CustomLabel: f.CustomLabel,
			FieldType:   f.FieldType,
			IsRequired:  f.IsRequired,
			IsVisible:   visible,
			SortOrder:   f.SortOrder,
		})
	}
	return fields, nil
}

type metricRegistryRepository struct {
	db *database.DB
}

func NewMetricRegistryRepository(db *database.DB) compensation.MetricRegistry {
	return &metricRegistryRepository{db: db}
}

func (r *metricRegistryRepository) ListMetrics(ctx context.Context) ([]compensation.MetricDefinition, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT key, label, category, type, is_required
		FROM metric_definitions
		ORDER BY key ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list metric definitions: %w", err)
	}
	defer rows.Close()

	var metrics []compensation.MetricDefinition
	for rows.Next() {
		var m compensation.MetricDefinition
		if err := rows.Scan(&m.Key, &m.Label, &m.Category, &m.Type, &m.IsRequired); err != nil {
			return nil, fmt.Errorf("failed to scan metric definition: %w", err)
		}
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric definitions: %w", err)
	}

	return metrics, nil
}

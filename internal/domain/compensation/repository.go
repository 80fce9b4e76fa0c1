package compensation

import (
	"context"
	"time"
)

// The interfaces below are the engine's collaborators. All of them are read
// paths except ShiftStore.SaveSnapshots and SchemeRepository.CreateVersion,
// which are only called by the payout commit and scheme versioning flows.
// Every method takes clubID to keep clubs isolated from each other.

// SchemaProvider returns the club's active report template fields.
type SchemaProvider interface {
	// GetActiveSchema returns ErrTemplateNotFound when the club has no active template
	GetActiveSchema(ctx context.Context, clubID string) ([]ReportField, error)
}

// MetricRegistry returns the global metric catalog.
type MetricRegistry interface {
	ListMetrics(ctx context.Context) ([]MetricDefinition, error)
}

type AssignmentRepository interface {
	// ListActive returns employees with an active scheme assignment
	ListActive(ctx context.Context, clubID string) ([]Assignment, error)
}

type SchemeRepository interface {
	GetByID(ctx context.Context, id string, clubID string) (Scheme, error)
	// GetLatestByName returns ErrSchemeNotFound when no version exists yet
	GetLatestByName(ctx context.Context, name string, clubID string) (Scheme, error)
	// CreateVersion inserts a new immutable version row
	CreateVersion(ctx context.Context, scheme Scheme) (Scheme, error)
}

type ShiftStore interface {
	ListByClubPeriod(ctx context.Context, clubID string, from, to time.Time, statuses []ShiftStatus) ([]Shift, error)
	// SaveSnapshots locks pay values for the given shifts. It must refuse
	// shifts whose snapshot is already set.
	SaveSnapshots(ctx context.Context, clubID string, writes []SnapshotWrite) error
}

type ScheduleProvider interface {
	CountPlannedShifts(ctx context.Context, clubID string, employeeID string, from, to time.Time) (int, error)
}

type PaymentLedger interface {
	ListPayments(ctx context.Context, clubID string, employeeID string, month, year int) ([]PaymentRecord, error)
}

type EvaluationService interface {
	GetAverage(ctx context.Context, clubID string, employeeID string, from, to time.Time) (EvaluationScore, error)
}

type MaintenanceService interface {
	GetBonus(ctx context.Context, clubID string, employeeID string, month, year int) (MaintenanceBonus, error)
}

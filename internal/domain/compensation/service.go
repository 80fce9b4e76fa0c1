package compensation

import "context"

type CompensationService interface {
	// GetCompensationSummary returns one summary per active employee for the month
	GetCompensationSummary(ctx context.Context, clubID string, month, year int) ([]EmployeeSummary, error)

	// CommitPayout freezes the computed pay of the given shifts
	CommitPayout(ctx context.Context, clubID string, req PayoutRequest) (PayoutResponse, error)

	// CreateSchemeVersion stores a new immutable scheme version
	CreateSchemeVersion(ctx context.Context, clubID string, req CreateSchemeRequest) (SchemeResponse, error)

	GetScheme(ctx context.Context, clubID string, id string) (SchemeResponse, error)
}

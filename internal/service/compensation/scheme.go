package compensation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

// CreateSchemeVersion stores the request as the next version of the named
// scheme. Earlier versions stay untouched.
func (s *CompensationServiceImpl) CreateSchemeVersion(ctx context.Context, clubID string, req compensation.CreateSchemeRequest) (compensation.SchemeResponse, error) {
	if clubID == "" {
		return compensation.SchemeResponse{}, compensation.ErrClubIDRequired
	}
	bonuses, err := req.Validate()
	if err != nil {
		return compensation.SchemeResponse{}, err
	}

	name := strings.TrimSpace(req.Name)
	version := 1
	latest, err := s.repos.Schemes.GetLatestByName(ctx, name, clubID)
	if err != nil && !errors.Is(err, compensation.ErrSchemeNotFound) {
		return compensation.SchemeResponse{}, fmt.Errorf("get latest scheme version: %w", err)
	}
	if err == nil {
		version = latest.Version + 1
	}

	created, err := s.repos.Schemes.CreateVersion(ctx, compensation.Scheme{
		ID:                    s.opts.NewID(),
		ClubID:                clubID,
		Name:                  name,
		Version:               version,
		Base:                  req.Base,
		Bonuses:               bonuses,
		StandardMonthlyShifts: req.StandardMonthlyShifts,
	})
	if err != nil {
		return compensation.SchemeResponse{}, fmt.Errorf("create scheme version: %w", err)
	}

	return toSchemeResponse(created), nil
}

func (s *CompensationServiceImpl) GetScheme(ctx context.Context, clubID string, id string) (compensation.SchemeResponse, error) {
	if clubID == "" {
		return compensation.SchemeResponse{}, compensation.ErrClubIDRequired
	}
	if !validator.IsValidUUID(id) {
		return compensation.SchemeResponse{}, compensation.ErrSchemeNotFound
	}

	scheme, err := s.repos.Schemes.GetByID(ctx, id, clubID)
	if err != nil {
		return compensation.SchemeResponse{}, err
	}
	return toSchemeResponse(scheme), nil
}

func toSchemeResponse(scheme compensation.Scheme) compensation.SchemeResponse {
	bonuses := scheme.Bonuses
	if bonuses == nil {
		bonuses = []compensation.PeriodBonus{}
	}
	return compensation.SchemeResponse{
		ID:                    scheme.ID,
		ClubID:                scheme.ClubID,
		Name:                  scheme.Name,
		Version:               scheme.Version,
		Base:                  scheme.Base,
		Bonuses:               bonuses,
		StandardMonthlyShifts: scheme.StandardMonthlyShifts,
		CreatedAt:             scheme.CreatedAt.Format(time.RFC3339),
	}
}

package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CompensationHandler interface {
	GetSummary(w http.ResponseWriter, r *http.Request)
	CommitPayout(w http.ResponseWriter, r *http.Request)

	// Schemes
	CreateScheme(w http.ResponseWriter, r *http.Request)
	GetScheme(w http.ResponseWriter, r *http.Request)
}

type compensationHandlerImpl struct {
	compensationService compensation.CompensationService
}

func NewCompensationHandler(compensationService compensation.CompensationService) CompensationHandler {
	return &compensationHandlerImpl{compensationService: compensationService}
}

// ========== SUMMARY ==========

func (h *compensationHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		response.HandleError(w, compensation.ErrClubIDRequired)
		return
	}

	var errs validator.ValidationErrors
	month, ok := validator.ParseInt(r.URL.Query().Get("month"))
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be an integer"})
	}
	year, ok := validator.ParseInt(r.URL.Query().Get("year"))
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be an integer"})
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	employees, err := h.compensationService.GetCompensationSummary(r.Context(), claims.ClubID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, compensation.NewSummaryResponse(claims.ClubID, month, year, employees))
}

// ========== PAYOUTS ==========

func (h *compensationHandlerImpl) CommitPayout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		response.HandleError(w, compensation.ErrClubIDRequired)
		return
	}

	var req compensation.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PaidBy = claims.UserID

	result, err := h.compensationService.CommitPayout(r.Context(), claims.ClubID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payout committed", result)
}

// ========== SCHEMES ==========

func (h *compensationHandlerImpl) CreateScheme(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		response.HandleError(w, compensation.ErrClubIDRequired)
		return
	}

	var req compensation.CreateSchemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.compensationService.CreateSchemeVersion(r.Context(), claims.ClubID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Compensation scheme version created", result)
}

func (h *compensationHandlerImpl) GetScheme(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromRequest(r)
	if !ok {
		response.HandleError(w, compensation.ErrClubIDRequired)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Scheme ID is required", nil)
		return
	}

	result, err := h.compensationService.GetScheme(r.Context(), claims.ClubID, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

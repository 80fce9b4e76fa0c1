package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // overrides err.Error() when set
}

// errorMappings is checked in order; the first errors.Is match wins.
var errorMappings = []errorMapping{
	// request
	{target: compensation.ErrClubIDRequired, status: http.StatusForbidden, code: CodeForbidden},
	{target: compensation.ErrInvalidPeriod, status: http.StatusBadRequest, code: CodeBadRequest},
	{target: compensation.ErrInvalidBonus, status: http.StatusBadRequest, code: CodeBadRequest},
	{target: compensation.ErrEmptyPayout, status: http.StatusBadRequest, code: CodeBadRequest},

	// lookup
	{target: compensation.ErrSchemeNotFound, status: http.StatusNotFound, code: CodeNotFound, message: "Compensation scheme not found"},
	{target: compensation.ErrShiftNotFound, status: http.StatusNotFound, code: CodeNotFound},
	{target: compensation.ErrSchemeMissing, status: http.StatusNotFound, code: CodeNotFound},

	// state
	{target: compensation.ErrShiftAlreadyPaid, status: http.StatusConflict, code: CodeConflict},
	{target: compensation.ErrShiftNotFinished, status: http.StatusConflict, code: CodeConflict},
	{target: compensation.ErrSnapshotConflict, status: http.StatusConflict, code: CodeConflict},
	{target: compensation.ErrVersionConflict, status: http.StatusConflict, code: CodeConflict, message: "Scheme version already exists, retry the request"},
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Fail(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", validationErrs.ToMap())
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		Fail(w, m.status, m.code, message, nil)
		return
	}

	slog.Error("unhandled error", "error", err)
	Fail(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}

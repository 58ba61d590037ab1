package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Ledger errors
	case errors.Is(err, attendance.ErrInvalidDateRange), errors.Is(err, attendance.ErrDateRangeTooLong):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrDeviceAuthFailed):
		BadGateway(w, "Device rejected the configured credentials")
	case errors.Is(err, attendance.ErrPunchSourceUnavailable):
		BadGateway(w, "Punch source unavailable")
	case errors.Is(err, attendance.ErrPunchCacheDisabled):
		ServiceUnavailable(w, "Punch cache is not configured")
	case errors.Is(err, attendance.ErrFixNotFound):
		NotFound(w, "Exception fix not found")
	case errors.Is(err, attendance.ErrInvalidFix):
		BadRequest(w, err.Error(), nil)

	// Holiday errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrInvalidSlotDate),
		errors.Is(err, holiday.ErrInvalidSlotTime),
		errors.Is(err, holiday.ErrInvalidSlotWindow):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

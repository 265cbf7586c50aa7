package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		InvalidInput(w, "Validation failed", validationErrs.ToMap())
		return
	}

	var geofenceErr *attendance.GeofenceError

	switch {
	// Auth errors
	case errors.Is(err, user.ErrInvalidToken), errors.Is(err, user.ErrPrincipalClaimsIncomplete):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired), errors.Is(err, user.ErrEmployeeAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		Fail(w, http.StatusNotFound, attendance.CodeNotFound, "User not found", nil)

	// Report errors
	case errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrInvalidExportFormat):
		Fail(w, http.StatusBadRequest, attendance.CodeInvalidInput, err.Error(), nil)

	// Attendance errors
	case errors.As(err, &geofenceErr):
		Fail(w, http.StatusForbidden, attendance.CodeGeofenceViolation, "You are outside the allowed geofence", map[string]string{
			"distance_km":     fmt.Sprintf("%.3f", geofenceErr.DistanceKm),
			"max_distance_km": fmt.Sprintf("%.3f", geofenceErr.MaxDistanceKm),
		})
	case errors.Is(err, attendance.ErrGeofenceViolation):
		Fail(w, http.StatusForbidden, attendance.CodeGeofenceViolation, "You are outside the allowed geofence", nil)
	case errors.Is(err, attendance.ErrInvalidInput):
		Fail(w, http.StatusBadRequest, attendance.CodeInvalidInput, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Fail(w, http.StatusConflict, attendance.CodeAlreadyCheckedIn, "You have already checked in today", nil)
	case errors.Is(err, attendance.ErrCheckInWindowClosed):
		Fail(w, http.StatusForbidden, attendance.CodeCheckInWindowClosed, "Check-in window is closed for today", nil)
	case errors.Is(err, attendance.ErrNoOpenCheckIn):
		Fail(w, http.StatusConflict, attendance.CodeNoOpenCheckIn, "No active check-in found for today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Fail(w, http.StatusConflict, attendance.CodeAlreadyCheckedOut, "You have already checked out", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		Fail(w, http.StatusNotFound, attendance.CodeNotFound, "Attendance record not found", nil)
	case errors.Is(err, attendance.ErrStoreUnavailable):
		ServiceUnavailable(w, "Attendance store is temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

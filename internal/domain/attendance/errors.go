package attendance

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// Attendance domain errors
var (
	ErrInvalidInput = errors.New("invalid input")

	// Check-in errors
	ErrAlreadyCheckedIn    = errors.New("you have already checked in today")
	ErrCheckInWindowClosed = errors.New("check-in window is closed for today")
	ErrGeofenceViolation   = errors.New("you are outside the allowed geofence")

	// Check-out errors
	ErrNoOpenCheckIn     = errors.New("no active check-in found for today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrStoreUnavailable   = errors.New("attendance store unavailable")
)

// GeofenceError reports a location rejected by the geofence together with the measured distance.
type GeofenceError struct {
	DistanceKm    float64
	MaxDistanceKm float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("you are outside the geofence (distance: %.2f km, allowed: %.2f km)", e.DistanceKm, e.MaxDistanceKm)
}

func (e *GeofenceError) Is(target error) bool {
	return target == ErrGeofenceViolation
}

// Condition codes reported to callers. They are stable across releases.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeAlreadyCheckedIn    = "ALREADY_CHECKED_IN"
	CodeCheckInWindowClosed = "CHECKIN_WINDOW_CLOSED"
	CodeNoOpenCheckIn       = "NO_OPEN_CHECKIN"
	CodeAlreadyCheckedOut   = "ALREADY_CHECKED_OUT"
	CodeGeofenceViolation   = "GEOFENCE_VIOLATION"
	CodeNotFound            = "NOT_FOUND"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// ConditionCode maps an error returned by this package's services to its condition code.
func ConditionCode(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput), errors.As(err, &validationErrs):
		return CodeInvalidInput
	case errors.Is(err, ErrAlreadyCheckedIn):
		return CodeAlreadyCheckedIn
	case errors.Is(err, ErrCheckInWindowClosed):
		return CodeCheckInWindowClosed
	case errors.Is(err, ErrNoOpenCheckIn):
		return CodeNoOpenCheckIn
	case errors.Is(err, ErrAlreadyCheckedOut):
		return CodeAlreadyCheckedOut
	case errors.Is(err, ErrGeofenceViolation):
		return CodeGeofenceViolation
	case errors.Is(err, ErrAttendanceNotFound):
		return CodeNotFound
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternal
	}
}

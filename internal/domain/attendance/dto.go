package attendance

import (
	"math"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	UserID string   `json:"-"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if r.Lat == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "latitude is required",
		})
	} else if !isFinite(*r.Lat) || *r.Lat < -90 || *r.Lat > 90 {
		errs = append(errs, validator.ValidationError{
			Field:   "lat",
			Message: "latitude must be a number between -90 and 90",
		})
	}

	if r.Lng == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "lng",
			Message: "longitude is required",
		})
	} else if !isFinite(*r.Lng) || *r.Lng < -180 || *r.Lng > 180 {
		errs = append(errs, validator.ValidationError{
			Field:   "lng",
			Message: "longitude must be a number between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	UserID string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	if validator.IsEmpty(r.UserID) {
		return validator.ValidationErrors{{
			Field:   "user_id",
			Message: "user_id is required",
		}}
	}
	return nil
}

type GetAttendanceRequest struct {
	ID            string
	RequesterID   string
	RequesterRole string
}

type MarkLeaveRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD
}

func (r *MarkLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	} else if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  *string   `json:"user_name,omitempty"`
	UserEmail *string   `json:"user_email,omitempty"`
	Date      string    `json:"date"`
	CheckIn   *string   `json:"check_in"`
	CheckOut  *string   `json:"check_out"`
	Status    Status    `json:"status"`
	Location  *Location `json:"location,omitempty"`

	WorkingHour float64 `json:"working_hour"`
	OverTime    float64 `json:"over_time"`
	BreakTime   float64 `json:"break_time"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn validates the reported location against the geofence and opens today's record
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's open record
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, req GetAttendanceRequest) (AttendanceResponse, error)

	// MarkLeave records a leave day for an employee (admin)
	MarkLeave(ctx context.Context, req MarkLeaveRequest) (AttendanceResponse, error)
}

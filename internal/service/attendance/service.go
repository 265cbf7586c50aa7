package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// Policy is the check-in policy applied to every request.
type Policy struct {
	Office        geo.Point
	MaxDistanceKm float64
	Cutoff        clock.TimeOfDay
	Location      *time.Location
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	accountant     TimeAccountant
	policy         Policy
	clock          clock.Clock
	metrics        *metrics.Recorder
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	accountant TimeAccountant,
	policy Policy,
	clk clock.Clock,
	recorder *metrics.Recorder,
) attendance.AttendanceService {
	if policy.Location == nil {
		policy.Location = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		accountant:     accountant,
		policy:         policy,
		clock:          clk,
		metrics:        recorder,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.metrics.CheckIn(resultLabel(err)) }()

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	reported := geo.Point{Lat: *req.Lat, Lng: *req.Lng}
	fence, err := geo.Validate(reported, a.policy.Office, a.policy.MaxDistanceKm)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: %v", attendance.ErrInvalidInput, err)
	}
	a.metrics.GeofenceDistance(fence.DistanceKm)
	if !fence.Accepted {
		return attendance.AttendanceResponse{}, &attendance.GeofenceError{
			DistanceKm:    fence.DistanceKm,
			MaxDistanceKm: a.policy.MaxDistanceKm,
		}
	}

	now := a.clock.Now()
	today := clock.DayOf(now, a.policy.Location)

	existing, err := a.attendanceRepo.FindByUserAndRange(ctx, req.UserID, today, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if len(existing) > 0 {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if a.policy.Cutoff.After(now, a.policy.Location) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckInWindowClosed
	}

	checkIn := now.UTC()
	// The store's (user, day) uniqueness settles concurrent check-ins that all passed the lookup above.
	created, err := a.attendanceRepo.CreateForDay(ctx, attendance.Attendance{
		UserID:    req.UserID,
		DayBucket: today,
		CheckIn:   &checkIn,
		Status:    attendance.StatusPresent,
		Location:  &attendance.Location{Lat: reported.Lat, Lng: reported.Lng},
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return ToResponse(created, a.accountant, a.policy.Location), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (resp attendance.AttendanceResponse, err error) {
	defer func() { a.metrics.CheckOut(resultLabel(err)) }()

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := a.clock.Now()
	startOfDay, _ := clock.DayBounds(now, a.policy.Location)

	open, err := a.attendanceRepo.FindOpenByUser(ctx, req.UserID, startOfDay)
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenCheckIn) {
			return attendance.AttendanceResponse{}, attendance.ErrNoOpenCheckIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get open attendance: %w", err)
	}

	checkOut := now.UTC()
	if !checkOut.After(*open.CheckIn) {
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: check-out must be later than check-in", attendance.ErrInvalidInput)
	}

	closed, err := a.attendanceRepo.CloseOpen(ctx, open.ID, checkOut)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyCheckedOut),
			errors.Is(err, attendance.ErrInvalidInput),
			errors.Is(err, attendance.ErrNoOpenCheckIn):
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to close attendance: %w", err)
	}

	return ToResponse(closed, a.accountant, a.policy.Location), nil
}

// GetAttendance implements attendance.AttendanceService.
// Records owned by someone else read as not found unless the requester is an admin.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, req attendance.GetAttendanceRequest) (attendance.AttendanceResponse, error) {
	if !validator.IsValidUUID(req.ID) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "id",
			Message: "id must be a valid UUID",
		}}
	}

	att, err := a.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if user.Role(req.RequesterRole) != user.RoleAdmin && att.UserID != req.RequesterID {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	return ToResponse(att, a.accountant, a.policy.Location), nil
}

// MarkLeave implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkLeave(ctx context.Context, req attendance.MarkLeaveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	day, _ := validator.IsValidDate(req.Date)

	u, err := a.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.AttendanceResponse{}, user.ErrUserNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("%w: failed to get user: %w", attendance.ErrStoreUnavailable, err)
	}

	created, err := a.attendanceRepo.CreateForDay(ctx, attendance.Attendance{
		UserID:    u.ID,
		DayBucket: clock.Date(day.Year(), day.Month(), day.Day()),
		Status:    attendance.StatusLeave,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create leave record: %w", err)
	}

	name, email := u.Name, u.Email
	created.UserName = &name
	created.UserEmail = &email

	return ToResponse(created, a.accountant, a.policy.Location), nil
}

// resultLabel turns an outcome into a metrics label.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(attendance.ConditionCode(err))
}

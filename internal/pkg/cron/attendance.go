package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
)

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	clock          clock.Clock
	location       *time.Location
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	clk clock.Clock,
	location *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		clock:          clk,
		location:       location,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees creates an Absent record for every active employee with no record for
// the previous day. Running it more than once for the same day has no further effect.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := clock.DayOf(j.clock.Now(), j.location).AddDate(0, 0, -1)

	slog.Info("Cron: Starting mark absent employees job", "date", yesterday.Format("2006-01-02"))

	employees, err := j.userRepo.ListActiveEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	existing, err := j.attendanceRepo.ExistingUserIDsForDay(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to get existing attendances: %w", err)
	}

	totalAbsent := 0
	for _, emp := range employees {
		if _, ok := existing[emp.ID]; ok {
			// Already has record (checked in, on leave or marked absent), skip
			continue
		}

		_, err := j.attendanceRepo.CreateForDay(ctx, attendance.Attendance{
			UserID:    emp.ID,
			DayBucket: yesterday,
			Status:    attendance.StatusAbsent,
		})
		if err != nil {
			if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
				continue
			}
			slog.Error("Cron: Failed to mark employee absent", "user_id", emp.ID, "error", err)
			continue
		}
		totalAbsent++
	}

	slog.Info("Cron: Marked absent employees", "count", totalAbsent)
	return nil
}

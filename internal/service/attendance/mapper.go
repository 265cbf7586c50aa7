package attendance

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// timePtrToString safely converts a *time.Time to an RFC 3339 string in loc.
func timePtrToString(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	format := t.In(loc).Format(time.RFC3339)
	return &format
}

// ToResponse converts an Attendance entity to AttendanceResponse with its time accounting attached.
func ToResponse(att attendance.Attendance, accountant TimeAccountant, loc *time.Location) attendance.AttendanceResponse {
	acct := accountant.Compute(att)

	return attendance.AttendanceResponse{
		ID:          att.ID,
		UserID:      att.UserID,
		UserName:    att.UserName,
		UserEmail:   att.UserEmail,
		Date:        att.DayBucket.Format("2006-01-02"),
		CheckIn:     timePtrToString(att.CheckIn, loc),
		CheckOut:    timePtrToString(att.CheckOut, loc),
		Status:      att.Status,
		Location:    att.Location,
		WorkingHour: acct.WorkingHour,
		OverTime:    acct.OverTime,
		BreakTime:   acct.BreakTime,
		CreatedAt:   att.CreatedAt.In(loc).Format(time.RFC3339),
		UpdatedAt:   att.UpdatedAt.In(loc).Format(time.RFC3339),
	}
}

// ToResponses maps records in order.
func ToResponses(records []attendance.Attendance, accountant TimeAccountant, loc *time.Location) []attendance.AttendanceResponse {
	out := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToResponse(r, accountant, loc))
	}
	return out
}

package attendance

import (
	"math"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

const (
	DefaultBreakHours    = 1.0
	DefaultStandardHours = 8.0
)

// TimeAccountant derives working time from a single record. It holds no state beyond its
// configuration, so Compute is safe for concurrent use.
type TimeAccountant struct {
	breakHours    float64
	standardHours float64
}

func NewTimeAccountant(breakHours, standardHours float64) TimeAccountant {
	return TimeAccountant{breakHours: breakHours, standardHours: standardHours}
}

// Compute returns zeros for a record that is not closed. Thresholds are compared at full
// precision and only the returned values are rounded.
func (t TimeAccountant) Compute(a attendance.Attendance) attendance.TimeAccounting {
	if a.CheckIn == nil || a.CheckOut == nil {
		return attendance.TimeAccounting{}
	}

	raw := a.CheckOut.Sub(*a.CheckIn).Hours()
	working := math.Max(raw-t.breakHours, 0)
	overtime := math.Max(working-t.standardHours, 0)

	return attendance.TimeAccounting{
		WorkingHour: round2(working),
		OverTime:    round2(overtime),
		BreakTime:   round2(t.breakHours),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

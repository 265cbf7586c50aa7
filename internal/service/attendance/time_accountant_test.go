package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func shift(in, out time.Time) attendance.Attendance {
	return attendance.Attendance{CheckIn: &in, CheckOut: &out, Status: attendance.StatusPresent}
}

func clockAt(hour, min int) time.Time {
	return time.Date(2024, 3, 11, hour, min, 0, 0, time.UTC)
}

func TestTimeAccountant_Compute(t *testing.T) {
	acc := NewTimeAccountant(DefaultBreakHours, DefaultStandardHours)

	tests := []struct {
		name     string
		record   attendance.Attendance
		expected attendance.TimeAccounting
	}{
		{
			name:     "regular day",
			record:   shift(clockAt(9, 0), clockAt(18, 0)),
			expected: attendance.TimeAccounting{WorkingHour: 8, OverTime: 0, BreakTime: 1},
		},
		{
			name:     "two hours overtime",
			record:   shift(clockAt(9, 0), clockAt(20, 0)),
			expected: attendance.TimeAccounting{WorkingHour: 10, OverTime: 2, BreakTime: 1},
		},
		{
			name:     "shorter than the break",
			record:   shift(clockAt(9, 0), clockAt(9, 30)),
			expected: attendance.TimeAccounting{WorkingHour: 0, OverTime: 0, BreakTime: 1},
		},
		{
			name:     "fractional hours are rounded",
			record:   shift(clockAt(9, 0), clockAt(17, 20)),
			expected: attendance.TimeAccounting{WorkingHour: 7.33, OverTime: 0, BreakTime: 1},
		},
		{
			name:     "open record",
			record:   attendance.Attendance{CheckIn: func() *time.Time { v := clockAt(9, 0); return &v }()},
			expected: attendance.TimeAccounting{},
		},
		{
			name:     "leave record without timestamps",
			record:   attendance.Attendance{Status: attendance.StatusLeave},
			expected: attendance.TimeAccounting{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, acc.Compute(tt.record))
		})
	}
}

func TestTimeAccountant_RoundsOnlyTheOutput(t *testing.T) {
	acc := NewTimeAccountant(DefaultBreakHours, DefaultStandardHours)

	// Overtime is taken from the unrounded 8.004, not from the rounded 8.00.
	in := clockAt(9, 0)
	out := in.Add(time.Duration(9.004 * float64(time.Hour)))

	got := acc.Compute(shift(in, out))
	assert.Equal(t, 8.0, got.WorkingHour)
	assert.Equal(t, 0.0, got.OverTime)

	out = in.Add(time.Duration(9.006 * float64(time.Hour)))
	got = acc.Compute(shift(in, out))
	assert.Equal(t, 8.01, got.WorkingHour)
	assert.Equal(t, 0.01, got.OverTime)
}

func TestTimeAccountant_NeverNegativeAndIdempotent(t *testing.T) {
	acc := NewTimeAccountant(1.5, DefaultStandardHours)
	in := clockAt(9, 0)

	for minutes := 0; minutes <= 24*60; minutes += 7 {
		rec := shift(in, in.Add(time.Duration(minutes)*time.Minute))
		first := acc.Compute(rec)
		assert.GreaterOrEqual(t, first.WorkingHour, 0.0)
		assert.GreaterOrEqual(t, first.OverTime, 0.0)
		assert.Equal(t, first, acc.Compute(rec))
	}
}

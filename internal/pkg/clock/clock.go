// Package clock resolves attendance days and cutoff times in a configured location.
package clock

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// Clock supplies the current instant.
type Clock func() time.Time

// System returns the wall clock.
func System() Clock {
	return time.Now
}

// Fixed always returns t. Intended for tests.
func Fixed(t time.Time) Clock {
	return func() time.Time { return t }
}

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// DayBounds returns the half-open interval [start, end) of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (start, end time.Time) {
	local := t.In(loc)
	start = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// DayOf returns the calendar date of t in loc as midnight UTC. Records are bucketed by this value.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return Date(local.Year(), local.Month(), local.Day())
}

// Date builds a day bucket.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// TimeOfDay is a wall-clock time independent of date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" on a 24-hour clock.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, ok := validator.IsValidClock(s)
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant at which the time of day occurs on the calendar day containing t in loc.
func (d TimeOfDay) On(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), d.Hour, d.Minute, 0, 0, loc)
}

// After reports whether t is strictly after the time of day on t's own calendar day in loc.
func (d TimeOfDay) After(t time.Time, loc *time.Location) bool {
	return t.After(d.On(t, loc))
}

func (d TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", d.Hour, d.Minute)
}

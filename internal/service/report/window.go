package report

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
)

// Window is an inclusive range of day buckets.
type Window struct {
	Period report.Period
	From   time.Time
	To     time.Time
}

// ResolveWindows returns the windows covered by period as of now in loc, in daily, weekly, monthly order.
func ResolveWindows(now time.Time, loc *time.Location, period report.Period) []Window {
	today := clock.DayOf(now, loc)

	all := []Window{
		{Period: report.PeriodDaily, From: today, To: today},
		{Period: report.PeriodWeekly, From: today.AddDate(0, 0, -6), To: today},
		{Period: report.PeriodMonthly, From: clock.Date(today.Year(), today.Month(), 1), To: today},
	}

	windows := make([]Window, 0, len(all))
	for _, w := range all {
		if period.Includes(w.Period) {
			windows = append(windows, w)
		}
	}
	return windows
}

package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
)

// Statuses lists every attendance status in reporting order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLeave}

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Attendance struct {
	ID     string
	UserID string

	// DayBucket is the calendar date (midnight UTC) of the local day the record belongs to.
	DayBucket time.Time

	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status
	Location  *Location
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName  *string
	UserEmail *string
}

// IsOpen reports whether the record has a check-in but no check-out yet.
func (a Attendance) IsOpen() bool {
	return a.CheckIn != nil && a.CheckOut == nil
}

// TimeAccounting is the working-time view derived from a single record.
type TimeAccounting struct {
	WorkingHour float64 `json:"working_hour"`
	OverTime    float64 `json:"over_time"`
	BreakTime   float64 `json:"break_time"`
}

// StatusCounts always carries an entry for every status in Statuses.
type StatusCounts map[Status]int64

func NewStatusCounts() StatusCounts {
	counts := make(StatusCounts, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	return counts
}

func (c StatusCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// Query is the store-level filter shared by list, count and export operations.
// FromDay and ToDay are inclusive day buckets.
type Query struct {
	UserID  string
	Status  Status
	FromDay *time.Time
	ToDay   *time.Time
	Limit   int
	Offset  int
}

package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Implementations must provide the conditional semantics documented per method;
// the engine relies on them instead of in-process locking.
type AttendanceRepository interface {
	// CreateForDay inserts a record unless one already exists for (UserID, DayBucket).
	// Returns ErrAlreadyCheckedIn when the uniqueness constraint rejects the insert.
	// Returns user.ErrUserNotFound when UserID references no known user.
	CreateForDay(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record with the owning user's name and email resolved.
	// Returns ErrAttendanceNotFound when no record matches.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// FindByUserAndRange returns the user's records whose day bucket lies in [fromDay, toDay],
	// newest first.
	FindByUserAndRange(ctx context.Context, userID string, fromDay, toDay time.Time) ([]Attendance, error)

	// FindOpenByUser returns the latest record with CheckIn >= since and no CheckOut.
	// Returns ErrNoOpenCheckIn when there is none.
	FindOpenByUser(ctx context.Context, userID string, since time.Time) (Attendance, error)

	// CloseOpen sets CheckOut only if it is still absent at write time.
	// Returns ErrAlreadyCheckedOut when the record was closed concurrently.
	CloseOpen(ctx context.Context, id string, checkOut time.Time) (Attendance, error)

	// List returns a page of records matching q sorted by day and check-in descending,
	// together with the total number of matching records.
	List(ctx context.Context, q Query) ([]Attendance, int64, error)

	// ListAll returns every record matching q in List order. Limit and Offset are ignored.
	ListAll(ctx context.Context, q Query) ([]Attendance, error)

	// ExistingUserIDsForDay returns the ids of users that already have a record for day.
	ExistingUserIDsForDay(ctx context.Context, day time.Time) (map[string]struct{}, error)

	// CountByStatus aggregates the records matching q per status. Limit and Offset are ignored.
	CountByStatus(ctx context.Context, q Query) (StatusCounts, error)
}

// Transactor runs fn so that every repository call made with the ctx it receives
// observes one consistent snapshot of the store.
type Transactor interface {
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

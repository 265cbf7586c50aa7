// Package memory provides process-local stores with the same conditional write semantics as
// the PostgreSQL repositories. Every operation is atomic under a single mutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/google/uuid"
)

type attendanceState struct {
	records map[string]attendance.Attendance
	// byDay indexes record ids by user and day bucket and enforces one record per pair.
	byDay map[string]string
}

func (s *attendanceState) clone() *attendanceState {
	c := &attendanceState{
		records: make(map[string]attendance.Attendance, len(s.records)),
		byDay:   make(map[string]string, len(s.byDay)),
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	for k, v := range s.byDay {
		c.byDay[k] = v
	}
	return c
}

type snapshotKey struct{}

type AttendanceRepository struct {
	mu    sync.RWMutex
	state *attendanceState
	users *UserRepository
	now   func() time.Time
}

func NewAttendanceRepository(users *UserRepository) *AttendanceRepository {
	return &AttendanceRepository{
		state: &attendanceState{
			records: make(map[string]attendance.Attendance),
			byDay:   make(map[string]string),
		},
		users: users,
		now:   time.Now,
	}
}

// WithinReadOnly runs fn against a snapshot of the store taken when it is called.
func (r *AttendanceRepository) WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(snapshotKey{}).(*attendanceState); ok {
		return fn(ctx)
	}

	r.mu.RLock()
	snap := r.state.clone()
	r.mu.RUnlock()

	return fn(context.WithValue(ctx, snapshotKey{}, snap))
}

// read returns the state visible to ctx. release must be called when done.
func (r *AttendanceRepository) read(ctx context.Context) (state *attendanceState, release func()) {
	if snap, ok := ctx.Value(snapshotKey{}).(*attendanceState); ok {
		return snap, func() {}
	}
	r.mu.RLock()
	return r.state, r.mu.RUnlock
}

func dayKey(userID string, day time.Time) string {
	return userID + "|" + day.Format("2006-01-02")
}

func (r *AttendanceRepository) CreateForDay(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, fmt.Errorf("%w: %v", attendance.ErrStoreUnavailable, err)
	}
	if a.CheckIn != nil && a.CheckOut != nil && !a.CheckOut.After(*a.CheckIn) {
		return attendance.Attendance{}, attendance.ErrInvalidInput
	}
	if r.users != nil {
		if _, ok := r.users.lookup(a.UserID); !ok {
			return attendance.Attendance{}, user.ErrUserNotFound
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(a.UserID, a.DayBucket)
	if _, exists := r.state.byDay[key]; exists {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	if a.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
		}
		a.ID = id.String()
	}
	now := r.now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	a.UserName = nil
	a.UserEmail = nil

	r.state.records[a.ID] = a
	r.state.byDay[key] = a.ID

	return a, nil
}

func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	state, release := r.read(ctx)
	defer release()

	a, ok := state.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return r.withUser(a), nil
}

func (r *AttendanceRepository) FindByUserAndRange(ctx context.Context, userID string, fromDay, toDay time.Time) ([]attendance.Attendance, error) {
	return r.ListAll(ctx, attendance.Query{UserID: userID, FromDay: &fromDay, ToDay: &toDay})
}

func (r *AttendanceRepository) FindOpenByUser(ctx context.Context, userID string, since time.Time) (attendance.Attendance, error) {
	state, release := r.read(ctx)
	defer release()

	var found *attendance.Attendance
	for _, a := range state.records {
		if a.UserID != userID || !a.IsOpen() || a.CheckIn.Before(since) {
			continue
		}
		if found == nil || a.CheckIn.After(*found.CheckIn) {
			rec := a
			found = &rec
		}
	}
	if found == nil {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}
	return *found, nil
}

func (r *AttendanceRepository) CloseOpen(ctx context.Context, id string, checkOut time.Time) (attendance.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Attendance{}, fmt.Errorf("%w: %v", attendance.ErrStoreUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.state.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	if a.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	}
	if a.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	if !checkOut.After(*a.CheckIn) {
		return attendance.Attendance{}, attendance.ErrInvalidInput
	}

	out := checkOut
	a.CheckOut = &out
	a.UpdatedAt = r.now().UTC()
	r.state.records[id] = a

	return a, nil
}

func (r *AttendanceRepository) List(ctx context.Context, q attendance.Query) ([]attendance.Attendance, int64, error) {
	state, release := r.read(ctx)
	defer release()

	matched := r.filter(state, q)
	total := int64(len(matched))

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return r.joinUsers(matched), total, nil
}

func (r *AttendanceRepository) ListAll(ctx context.Context, q attendance.Query) ([]attendance.Attendance, error) {
	state, release := r.read(ctx)
	defer release()

	return r.joinUsers(r.filter(state, q)), nil
}

func (r *AttendanceRepository) ExistingUserIDsForDay(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	state, release := r.read(ctx)
	defer release()

	ids := make(map[string]struct{})
	for _, a := range state.records {
		if a.DayBucket.Equal(day) {
			ids[a.UserID] = struct{}{}
		}
	}
	return ids, nil
}

func (r *AttendanceRepository) CountByStatus(ctx context.Context, q attendance.Query) (attendance.StatusCounts, error) {
	state, release := r.read(ctx)
	defer release()

	counts := attendance.NewStatusCounts()
	for _, a := range r.filter(state, q) {
		counts[a.Status]++
	}
	return counts, nil
}

// filter returns the records matching q sorted by day bucket then check-in, newest first.
func (r *AttendanceRepository) filter(state *attendanceState, q attendance.Query) []attendance.Attendance {
	var out []attendance.Attendance
	for _, a := range state.records {
		if q.UserID != "" && a.UserID != q.UserID {
			continue
		}
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.FromDay != nil && a.DayBucket.Before(*q.FromDay) {
			continue
		}
		if q.ToDay != nil && a.DayBucket.After(*q.ToDay) {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DayBucket.Equal(b.DayBucket) {
			return a.DayBucket.After(b.DayBucket)
		}
		switch {
		case a.CheckIn != nil && b.CheckIn != nil && !a.CheckIn.Equal(*b.CheckIn):
			return a.CheckIn.After(*b.CheckIn)
		case a.CheckIn != nil && b.CheckIn == nil:
			return true
		case a.CheckIn == nil && b.CheckIn != nil:
			return false
		}
		return a.ID > b.ID
	})
	return out
}

func (r *AttendanceRepository) joinUsers(records []attendance.Attendance) []attendance.Attendance {
	for i := range records {
		records[i] = r.withUser(records[i])
	}
	return records
}

func (r *AttendanceRepository) withUser(a attendance.Attendance) attendance.Attendance {
	if r.users == nil {
		return a
	}
	if u, ok := r.users.lookup(a.UserID); ok {
		name, email := u.Name, u.Email
		a.UserName = &name
		a.UserEmail = &email
	}
	return a
}

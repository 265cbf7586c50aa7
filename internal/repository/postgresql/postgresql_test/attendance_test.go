package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/presence-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ts(day, hour int) *time.Time {
	t := time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func presentRecord(userID string, day, hour int) attendance.Attendance {
	return attendance.Attendance{
		UserID:    userID,
		DayBucket: clock.Date(2024, 3, day),
		CheckIn:   ts(day, hour),
		Status:    attendance.StatusPresent,
		Location:  &attendance.Location{Lat: 33.6844, Lng: 73.0479},
	}
}

func TestAttendanceRepository_CreateForDay(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "Ayu", "ayu@example.com", user.RoleEmployee, user.StatusActive)
	repo := postgresql.NewAttendanceRepository(db)

	created, err := repo.CreateForDay(ctx, presentRecord(u.ID, 11, 9))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, clock.Date(2024, 3, 11), created.DayBucket.UTC())
	require.NotNil(t, created.Location)
	assert.InDelta(t, 33.6844, created.Location.Lat, 1e-9)

	_, err = repo.CreateForDay(ctx, presentRecord(u.ID, 11, 10))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	_, err = repo.CreateForDay(ctx, presentRecord("01900000-0000-7000-8000-00000000dead", 11, 9))
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.NotErrorIs(t, err, attendance.ErrStoreUnavailable)
}

func TestAttendanceRepository_CreateForDay_Concurrent(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "Ayu", "ayu@example.com", user.RoleEmployee, user.StatusActive)
	repo := postgresql.NewAttendanceRepository(db)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.CreateForDay(ctx, presentRecord(u.ID, 11, 9))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAttendanceRepository_CloseOpen(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	u := createTestUser(t, ctx, db, "Ayu", "ayu@example.com", user.RoleEmployee, user.StatusActive)
	repo := postgresql.NewAttendanceRepository(db)

	created, err := repo.CreateForDay(ctx, presentRecord(u.ID, 11, 9))
	require.NoError(t, err)

	open, err := repo.FindOpenByUser(ctx, u.ID, *ts(11, 0))
	require.NoError(t, err)
	assert.Equal(t, created.ID, open.ID)

	_, err = repo.CloseOpen(ctx, created.ID, *ts(11, 8))
	assert.ErrorIs(t, err, attendance.ErrInvalidInput)

	closed, err := repo.CloseOpen(ctx, created.ID, *ts(11, 18))
	require.NoError(t, err)
	require.NotNil(t, closed.CheckOut)

	_, err = repo.CloseOpen(ctx, created.ID, *ts(11, 19))
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	_, err = repo.FindOpenByUser(ctx, u.ID, *ts(11, 0))
	assert.ErrorIs(t, err, attendance.ErrNoOpenCheckIn)

	_, err = repo.CloseOpen(ctx, "0190a0b0-0000-7000-8000-000000000000", *ts(11, 19))
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListAndCount(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	ayu := createTestUser(t, ctx, db, "Ayu", "ayu@example.com", user.RoleEmployee, user.StatusActive)
	budi := createTestUser(t, ctx, db, "Budi", "budi@example.com", user.RoleEmployee, user.StatusActive)
	repo := postgresql.NewAttendanceRepository(db)
	transactor := postgresql.NewTransactor(db)

	for day := 1; day <= 3; day++ {
		_, err := repo.CreateForDay(ctx, presentRecord(ayu.ID, day, 9))
		require.NoError(t, err)
	}
	_, err := repo.CreateForDay(ctx, attendance.Attendance{
		UserID: budi.ID, DayBucket: clock.Date(2024, 3, 2), Status: attendance.StatusLeave,
	})
	require.NoError(t, err)

	err = transactor.WithinReadOnly(ctx, func(ctx context.Context) error {
		records, total, err := repo.List(ctx, attendance.Query{Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, records, 2)
		assert.Equal(t, clock.Date(2024, 3, 3), records[0].DayBucket.UTC())
		require.NotNil(t, records[0].UserEmail)
		assert.Equal(t, "ayu@example.com", *records[0].UserEmail)

		counts, err := repo.CountByStatus(ctx, attendance.Query{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), counts[attendance.StatusPresent])
		assert.Equal(t, int64(0), counts[attendance.StatusAbsent])
		assert.Equal(t, int64(1), counts[attendance.StatusLeave])
		return nil
	})
	require.NoError(t, err)

	from, to := clock.Date(2024, 3, 2), clock.Date(2024, 3, 3)
	records, err := repo.FindByUserAndRange(ctx, ayu.ID, from, to)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	ids, err := repo.ExistingUserIDsForDay(ctx, clock.Date(2024, 3, 2))
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestUserRepository(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	createTestUser(t, ctx, db, "Citra", "citra@example.com", user.RoleEmployee, user.StatusActive)
	createTestUser(t, ctx, db, "Ayu", "ayu@example.com", user.RoleEmployee, user.StatusActive)
	createTestUser(t, ctx, db, "Dewi", "dewi@example.com", user.RoleEmployee, user.StatusInactive)
	admin := createTestUser(t, ctx, db, "Admin", "admin@example.com", user.RoleAdmin, user.StatusActive)
	repo := postgresql.NewUserRepository(db)

	got, err := repo.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	_, err = repo.GetByID(ctx, "0190a0b0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	active, err := repo.ListActiveEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Ayu", active[0].Name)
}

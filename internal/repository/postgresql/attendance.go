package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.user_id, a.day_bucket, a.check_in, a.check_out, a.status,
	a.lat, a.lng, a.created_at, a.updated_at`

// storeErr marks a driver failure as a store outage while keeping the cause in the chain.
func storeErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, attendance.ErrStoreUnavailable, err)
}

func scanAttendance(row pgx.Row, withUser bool) (attendance.Attendance, error) {
	var (
		att      attendance.Attendance
		lat, lng *float64
	)
	dest := []interface{}{
		&att.ID, &att.UserID, &att.DayBucket, &att.CheckIn, &att.CheckOut, &att.Status,
		&lat, &lng, &att.CreatedAt, &att.UpdatedAt,
	}
	if withUser {
		dest = append(dest, &att.UserName, &att.UserEmail)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Attendance{}, err
	}
	if lat != nil && lng != nil {
		att.Location = &attendance.Location{Lat: *lat, Lng: *lng}
	}
	return att, nil
}

func collectAttendances(rows pgx.Rows, withUser bool) ([]attendance.Attendance, error) {
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows, withUser)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}

// CreateForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateForDay(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.Attendance{}, fmt.Errorf("generate attendance id: %w", err)
		}
		newAttendance.ID = id.String()
	}

	var lat, lng *float64
	if newAttendance.Location != nil {
		lat, lng = &newAttendance.Location.Lat, &newAttendance.Location.Lng
	}

	query := `
		INSERT INTO attendances AS a (id, user_id, day_bucket, check_in, check_out, status, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, day_bucket) DO NOTHING
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.UserID,
		newAttendance.DayBucket,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.Status,
		lat,
		lng,
	), false)

	switch {
	case err == nil:
		return created, nil
	case database.IsNoRows(err), database.IsUniqueViolation(err):
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	case database.IsCheckViolation(err):
		return attendance.Attendance{}, attendance.ErrInvalidInput
	case database.IsForeignKeyViolation(err):
		return attendance.Attendance{}, user.ErrUserNotFound
	default:
		return attendance.Attendance{}, storeErr("create attendance", err)
	}
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `, u.name, u.email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if database.IsNoRows(err) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, storeErr("get attendance", err)
	}
	return att, nil
}

// FindByUserAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindByUserAndRange(ctx context.Context, userID string, fromDay, toDay time.Time) ([]attendance.Attendance, error) {
	return a.ListAll(ctx, attendance.Query{UserID: userID, FromDay: &fromDay, ToDay: &toDay})
}

// FindOpenByUser implements attendance.AttendanceRepository.
func (a *attendanceRepository) FindOpenByUser(ctx context.Context, userID string, since time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.check_in >= $2
		  AND a.check_out IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, since), false)
	if err != nil {
		if database.IsNoRows(err) {
			return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
		}
		return attendance.Attendance{}, storeErr("get open attendance", err)
	}
	return att, nil
}

// CloseOpen implements attendance.AttendanceRepository.
func (a *attendanceRepository) CloseOpen(ctx context.Context, id string, checkOut time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances AS a
		SET check_out = $2, updated_at = NOW()
		WHERE a.id = $1
		  AND a.check_in IS NOT NULL
		  AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	closed, err := scanAttendance(q.QueryRow(ctx, query, id, checkOut), false)
	switch {
	case err == nil:
		return closed, nil
	case database.IsCheckViolation(err):
		return attendance.Attendance{}, attendance.ErrInvalidInput
	case !database.IsNoRows(err):
		return attendance.Attendance{}, storeErr("close attendance", err)
	}

	// Nothing updated: find out why.
	var hasCheckIn bool
	err = q.QueryRow(ctx, `SELECT check_in IS NOT NULL FROM attendances WHERE id = $1`, id).Scan(&hasCheckIn)
	switch {
	case database.IsNoRows(err):
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	case err != nil:
		return attendance.Attendance{}, storeErr("inspect attendance", err)
	case !hasCheckIn:
		return attendance.Attendance{}, attendance.ErrNoOpenCheckIn
	default:
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
}

// buildWhere renders q as a WHERE clause with positional arguments.
func buildWhere(q attendance.Query) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if q.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("a.user_id = $%d", argIdx))
		args = append(args, q.UserID)
		argIdx++
	}
	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argIdx))
		args = append(args, string(q.Status))
		argIdx++
	}
	if q.FromDay != nil {
		conditions = append(conditions, fmt.Sprintf("a.day_bucket >= $%d", argIdx))
		args = append(args, *q.FromDay)
		argIdx++
	}
	if q.ToDay != nil {
		conditions = append(conditions, fmt.Sprintf("a.day_bucket <= $%d", argIdx))
		args = append(args, *q.ToDay)
	}

	return strings.Join(conditions, " AND "), args
}

const listOrder = `ORDER BY a.day_bucket DESC, a.check_in DESC NULLS LAST, a.id DESC`

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Query) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances a WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("count attendances", err)
	}

	selectQuery := `
		SELECT ` + attendanceColumns + `, u.name, u.email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + where + `
		` + listOrder
	if filter.Limit > 0 {
		selectQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, storeErr("list attendances", err)
	}
	records, err := collectAttendances(rows, true)
	if err != nil {
		return nil, 0, storeErr("scan attendances", err)
	}

	return records, total, nil
}

// ListAll implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListAll(ctx context.Context, filter attendance.Query) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildWhere(filter)
	query := `
		SELECT ` + attendanceColumns + `, u.name, u.email
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + where + `
		` + listOrder

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("list attendances", err)
	}
	records, err := collectAttendances(rows, true)
	if err != nil {
		return nil, storeErr("scan attendances", err)
	}
	return records, nil
}

// ExistingUserIDsForDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) ExistingUserIDsForDay(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, `SELECT user_id FROM attendances WHERE day_bucket = $1`, day)
	if err != nil {
		return nil, storeErr("list attendance users", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, storeErr("scan attendance user", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate attendance users", err)
	}
	return ids, nil
}

// CountByStatus implements attendance.AttendanceRepository.
func (a *attendanceRepository) CountByStatus(ctx context.Context, filter attendance.Query) (attendance.StatusCounts, error) {
	q := GetQuerier(ctx, a.db)

	where, args := buildWhere(filter)
	query := `
		SELECT a.status, COUNT(*)
		FROM attendances a
		WHERE ` + where + `
		GROUP BY a.status
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr("count attendances by status", err)
	}
	defer rows.Close()

	counts := attendance.NewStatusCounts()
	for rows.Next() {
		var (
			status attendance.Status
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storeErr("scan status count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate status counts", err)
	}
	return counts, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/database"
)

const attendanceColumns = `
	a.id, a.user_id, a.date,
	a.punch_in_time, a.punch_in_latitude, a.punch_in_longitude,
	a.punch_in_address, a.punch_in_image_url, a.punch_in_device_info,
	a.punch_out_time, a.punch_out_latitude, a.punch_out_longitude,
	a.punch_out_address, a.punch_out_image_url, a.punch_out_device_info,
	a.status, a.active_hours, a.working_hours,
	a.location_distance, a.location_mismatch, a.location_warning,
	a.created_at, a.updated_at`

type attendanceRepository struct {
	db *database.DB
}

func scanAttendance(row pgx.Row, withUserName bool) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []interface{}{
		&att.ID, &att.UserID, &att.Date,
		&att.PunchInTime, &att.PunchInLatitude, &att.PunchInLongitude,
		&att.PunchInAddress, &att.PunchInImageURL, &att.PunchInDeviceInfo,
		&att.PunchOutTime, &att.PunchOutLatitude, &att.PunchOutLongitude,
		&att.PunchOutAddress, &att.PunchOutImageURL, &att.PunchOutDeviceInfo,
		&att.Status, &att.ActiveHours, &att.WorkingHours,
		&att.LocationDistance, &att.LocationMismatch, &att.LocationWarning,
		&att.CreatedAt, &att.UpdatedAt,
	}
	if withUserName {
		dest = append(dest, &att.UserName)
	}
	return att, row.Scan(dest...)
}

// isUniqueViolation reports whether err is a unique constraint violation.
// The attendances table has a unique index on (user_id, date), so a
// violation on insert means the user already punched in that day.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, date,
			punch_in_time, punch_in_latitude, punch_in_longitude,
			punch_in_address, punch_in_image_url, punch_in_device_info,
			status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.Date,
		newAttendance.PunchInTime,
		newAttendance.PunchInLatitude,
		newAttendance.PunchInLongitude,
		newAttendance.PunchInAddress,
		newAttendance.PunchInImageURL,
		newAttendance.PunchInDeviceInfo,
		newAttendance.Status,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyPunchedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `,
			u.name AS user_name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id), true)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.user_id = $1
		  AND a.date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date), false)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// GetTodayForAllUsers implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetTodayForAllUsers(ctx context.Context, date time.Time) (map[string]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.date = $1
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query today's attendances: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string]attendance.Attendance)
	for rows.Next() {
		att, err := scanAttendance(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		byUser[att.UserID] = att
	}

	return byUser, nil
}

// Update implements attendance.AttendanceRepository. It persists the
// full mutable row, derived columns included, so a re-classified record
// can clear stale values back to NULL.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			punch_in_time = $1, punch_in_latitude = $2, punch_in_longitude = $3,
			punch_in_address = $4, punch_in_image_url = $5, punch_in_device_info = $6,
			punch_out_time = $7, punch_out_latitude = $8, punch_out_longitude = $9,
			punch_out_address = $10, punch_out_image_url = $11, punch_out_device_info = $12,
			status = $13, active_hours = $14, working_hours = $15,
			location_distance = $16, location_mismatch = $17, location_warning = $18,
			updated_at = $19
		WHERE id = $20
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		att.PunchInTime, att.PunchInLatitude, att.PunchInLongitude,
		att.PunchInAddress, att.PunchInImageURL, att.PunchInDeviceInfo,
		att.PunchOutTime, att.PunchOutLatitude, att.PunchOutLongitude,
		att.PunchOutAddress, att.PunchOutImageURL, att.PunchOutDeviceInfo,
		att.Status, att.ActiveHours, att.WorkingHours,
		att.LocationDistance, att.LocationMismatch, att.LocationWarning,
		time.Now(),
		att.ID,
	).Scan(&updatedID)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	// User name filter (search)
	if filter.UserName != nil && *filter.UserName != "" {
		baseWhere += fmt.Sprintf(" AND u.name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.UserName+"%")
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	// Date range filters
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count total (need to join users for name filter)
	countQuery := `
		SELECT COUNT(*)
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "a.date"
	switch filter.SortBy {
	case "user_name":
		orderByField = "u.name"
	case "punch_in_time":
		orderByField = "a.punch_in_time"
	case "punch_out_time":
		orderByField = "a.punch_out_time"
	case "status":
		orderByField = "a.status"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			u.name AS user_name
		FROM attendances a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderByField, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// GetMyAttendance implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetMyAttendance(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.user_id = $1"
	args := []interface{}{userID}
	argIdx := 2

	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`
		FROM attendances a
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows, false)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	query := `DELETE FROM attendances WHERE id = $1`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListUserIDsWithoutRecord implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListUserIDsWithoutRecord(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT u.id
		FROM users u
		WHERE u.is_active = TRUE
		  AND NOT EXISTS (
			SELECT 1 FROM attendances a
			WHERE a.user_id = u.id AND a.date = $1
		  )
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list users without attendance record: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	return userIDs, nil
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
// ON CONFLICT keeps the sweep idempotent when a record appears between
// the listing and the insert.
func (a *attendanceRepository) BulkCreateAbsences(ctx context.Context, absences []attendance.Attendance) error {
	if len(absences) == 0 {
		return nil
	}

	q := GetQuerier(ctx, a.db)

	values := make([]string, 0, len(absences))
	args := make([]interface{}, 0, len(absences)*3)
	argIdx := 1
	for _, absence := range absences {
		values = append(values, fmt.Sprintf("($%d, $%d, $%d)", argIdx, argIdx+1, argIdx+2))
		args = append(args, absence.UserID, absence.Date, absence.Status)
		argIdx += 3
	}

	query := `
		INSERT INTO attendances (user_id, date, status)
		VALUES ` + strings.Join(values, ", ") + `
		ON CONFLICT (user_id, date) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

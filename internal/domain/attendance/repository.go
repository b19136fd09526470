package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance
// records. The attendances table carries a uniqueness constraint on
// (user_id, date); Create surfaces a violation as ErrAlreadyPunchedIn
// so concurrent punch-ins cannot produce two records for one day.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil without error when no record exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// GetTodayForAllUsers returns today's records keyed by user ID.
	GetTodayForAllUsers(ctx context.Context, date time.Time) (map[string]Attendance, error)

	Update(ctx context.Context, attendance Attendance) error

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	GetMyAttendance(ctx context.Context, userID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	Delete(ctx context.Context, id string) error

	// ListUserIDsWithoutRecord returns active user IDs that have no
	// attendance record on the given date. Used by the absent sweep.
	ListUserIDsWithoutRecord(ctx context.Context, date time.Time) ([]string, error)

	// BulkCreateAbsences inserts absence records created by the sweep.
	BulkCreateAbsences(ctx context.Context, absences []Attendance) error
}

package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// PunchIn records the start of a work session. Fails with
	// ErrAlreadyPunchedIn when today's record already has a punch-in.
	PunchIn(ctx context.Context, req PunchInRequest) (AttendanceResponse, error)

	// PunchOut completes today's session and derives the final status.
	PunchOut(ctx context.Context, req PunchOutRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves records for the authenticated user
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// GetTodayStatus returns the authenticated user's punch state for
	// today, for the mobile app's punch button.
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// ListAttendance retrieves records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// UpdateAttendance fixes wrong punch data (admin); status is re-derived
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// DeleteAttendance removes a record (admin)
	DeleteAttendance(ctx context.Context, id string) error
}

package attendance

import (
	"time"
)

type Attendance struct {
	ID                 string
	UserID             string
	Date               time.Time // work day, truncated to midnight
	PunchInTime        *time.Time
	PunchInLatitude    *float64
	PunchInLongitude   *float64
	PunchInAddress     *string
	PunchInImageURL    *string
	PunchInDeviceInfo  *string
	PunchOutTime       *time.Time
	PunchOutLatitude   *float64
	PunchOutLongitude  *float64
	PunchOutAddress    *string
	PunchOutImageURL   *string
	PunchOutDeviceInfo *string
	Status             Status
	ActiveHours        *float64
	WorkingHours       *float64 // kept identical to ActiveHours for compatibility
	LocationDistance   *float64
	LocationMismatch   bool
	LocationWarning    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	UserName *string
}

// HasPunchedIn reports whether a punch-in has been recorded.
func (a *Attendance) HasPunchedIn() bool {
	return a.PunchInTime != nil
}

// HasPunchedOut reports whether a punch-out has been recorded.
func (a *Attendance) HasPunchedOut() bool {
	return a.PunchOutTime != nil
}

// IsOpenSession reports whether the user is punched in and has not
// punched out yet.
func (a *Attendance) IsOpenSession() bool {
	return a.HasPunchedIn() && !a.HasPunchedOut()
}

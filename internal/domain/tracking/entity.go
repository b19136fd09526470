package tracking

import "time"

// LocationPing is one periodic location sample for a punched-in user.
// Pings older than the retention window are purged by a background job.
type LocationPing struct {
	ID                  string
	UserID              string
	AttendanceID        string
	Latitude            float64
	Longitude           float64
	Accuracy            *float64
	Address             *string
	DistanceFromPunchIn *float64
	IsActive            bool
	RecordedAt          time.Time
	CreatedAt           time.Time
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserSnapshot is the consolidated per-user view served to the live
// tracking dashboard.
type UserSnapshot struct {
	UserID              string      `json:"user_id"`
	Name                string      `json:"name"`
	Status              string      `json:"status"` // active, inactive
	HasPunchedIn        bool        `json:"has_punched_in"`
	HasPunchedOut       bool        `json:"has_punched_out"`
	AttendanceStatus    string      `json:"attendance_status,omitempty"`
	PunchInTime         *time.Time  `json:"punch_in_time,omitempty"`
	PunchOutTime        *time.Time  `json:"punch_out_time,omitempty"`
	Location            *Coordinate `json:"location"`
	DistanceFromPunchIn *float64    `json:"distance_from_punch_in,omitempty"`
	IsTracking          bool        `json:"is_tracking"`
}

// ProximityGroup is a cluster of active users around an anchor point.
// Ephemeral: recomputed on each query, never persisted.
type ProximityGroup struct {
	Center  Coordinate     `json:"center"`
	Members []UserSnapshot `json:"employees"`
}

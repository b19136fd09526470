package tracking

import (
	"time"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/user"
)

// AggregateOptions holds the live view thresholds.
type AggregateOptions struct {
	// ActiveWindow is how recent a ping must be to count as tracking.
	ActiveWindow time.Duration
	// GroupRadiusMeters is the proximity grouping radius.
	GroupRadiusMeters float64
}

// DefaultAggregateOptions returns the operational thresholds: a ping
// is live for 15 minutes, groups form within 100 meters.
func DefaultAggregateOptions() AggregateOptions {
	return AggregateOptions{
		ActiveWindow:      15 * time.Minute,
		GroupRadiusMeters: 100,
	}
}

// LiveLocationView is the consolidated tracking dashboard payload.
type LiveLocationView struct {
	Users         []UserSnapshot   `json:"users"`
	ActiveUsers   []UserSnapshot   `json:"active_users"`
	InactiveUsers []UserSnapshot   `json:"inactive_users"`
	Groups        []ProximityGroup `json:"groups"`
	TotalCount    int              `json:"total_count"`
	ActiveCount   int              `json:"active_count"`
	InactiveCount int              `json:"inactive_count"`
	GroupCount    int              `json:"group_count"`
}

// BuildLiveView joins users with today's attendance and the most
// recent ping per user, partitions the result into active (punched in,
// not punched out) and inactive users, and clusters the active users
// that have a live location.
//
// A ping older than opts.ActiveWindow does not count: the snapshot
// keeps a nil Location and IsTracking false even when the user is
// punched in. Snapshots follow the order of users, which fixes the
// grouping iteration order.
func BuildLiveView(
	users []user.User,
	attendanceByUser map[string]attendance.Attendance,
	latestPingByUser map[string]LocationPing,
	now time.Time,
	opts AggregateOptions,
) LiveLocationView {
	view := LiveLocationView{
		Users:         make([]UserSnapshot, 0, len(users)),
		ActiveUsers:   []UserSnapshot{},
		InactiveUsers: []UserSnapshot{},
	}

	for _, u := range users {
		snap := UserSnapshot{
			UserID: u.ID,
			Name:   u.Name,
			Status: "inactive",
		}

		if att, ok := attendanceByUser[u.ID]; ok {
			snap.HasPunchedIn = att.HasPunchedIn()
			snap.HasPunchedOut = att.HasPunchedOut()
			snap.AttendanceStatus = string(att.Status)
			snap.PunchInTime = att.PunchInTime
			snap.PunchOutTime = att.PunchOutTime
		}

		if ping, ok := latestPingByUser[u.ID]; ok && now.Sub(ping.RecordedAt) <= opts.ActiveWindow {
			snap.Location = &Coordinate{Latitude: ping.Latitude, Longitude: ping.Longitude}
			snap.DistanceFromPunchIn = ping.DistanceFromPunchIn
			snap.IsTracking = true
		}

		if snap.HasPunchedIn && !snap.HasPunchedOut {
			snap.Status = "active"
			view.ActiveUsers = append(view.ActiveUsers, snap)
		} else {
			view.InactiveUsers = append(view.InactiveUsers, snap)
		}
		view.Users = append(view.Users, snap)
	}

	// Only active users with a known location participate in grouping.
	locatable := make([]UserSnapshot, 0, len(view.ActiveUsers))
	for _, snap := range view.ActiveUsers {
		if snap.Location != nil {
			locatable = append(locatable, snap)
		}
	}
	view.Groups = GroupByProximity(locatable, opts.GroupRadiusMeters)

	view.TotalCount = len(view.Users)
	view.ActiveCount = len(view.ActiveUsers)
	view.InactiveCount = len(view.InactiveUsers)
	view.GroupCount = len(view.Groups)

	return view
}

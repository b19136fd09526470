package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/user"
)

func testUser(id, name string) user.User {
	return user.User{ID: id, Name: name, Role: user.RoleEmployee, IsActive: true}
}

func openSession(userID string, punchedInAt time.Time) attendance.Attendance {
	return attendance.Attendance{
		UserID:      userID,
		PunchInTime: &punchedInAt,
		Status:      attendance.StatusPresent,
	}
}

func closedSession(userID string, in, out time.Time) attendance.Attendance {
	return attendance.Attendance{
		UserID:       userID,
		PunchInTime:  &in,
		PunchOutTime: &out,
		Status:       attendance.StatusPresent,
	}
}

func pingAt(userID string, lat, lon float64, at time.Time) LocationPing {
	dist := 12.5
	return LocationPing{
		UserID:              userID,
		Latitude:            lat,
		Longitude:           lon,
		DistanceFromPunchIn: &dist,
		IsActive:            true,
		RecordedAt:          at,
	}
}

func TestBuildLiveView_Partitioning(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	morning := now.Add(-3 * time.Hour)

	users := []user.User{
		testUser("alice", "Alice"),
		testUser("bob", "Bob"),
		testUser("carol", "Carol"),
		testUser("dave", "Dave"),
	}
	atts := map[string]attendance.Attendance{
		"alice": openSession("alice", morning),
		"bob":   openSession("bob", morning),
		"carol": closedSession("carol", morning, now.Add(-10*time.Minute)),
	}
	pings := map[string]LocationPing{
		"alice": pingAt("alice", -6.2088, 106.8456, now.Add(-2*time.Minute)),
		"bob":   pingAt("bob", -6.2090, 106.8460, now.Add(-20*time.Minute)), // stale
		"carol": pingAt("carol", -6.3000, 106.9000, now.Add(-1*time.Minute)),
	}

	view := BuildLiveView(users, atts, pings, now, DefaultAggregateOptions())

	assert.Equal(t, 4, view.TotalCount)
	assert.Equal(t, 2, view.ActiveCount)
	assert.Equal(t, 2, view.InactiveCount)

	require.Len(t, view.Users, 4)

	byID := map[string]UserSnapshot{}
	for _, snap := range view.Users {
		byID[snap.UserID] = snap
	}

	alice := byID["alice"]
	assert.Equal(t, "active", alice.Status)
	assert.True(t, alice.IsTracking)
	require.NotNil(t, alice.Location)
	assert.Equal(t, -6.2088, alice.Location.Latitude)
	require.NotNil(t, alice.DistanceFromPunchIn)
	assert.Equal(t, 12.5, *alice.DistanceFromPunchIn)

	// Punched in but last ping is outside the 15 minute window.
	bob := byID["bob"]
	assert.Equal(t, "active", bob.Status)
	assert.False(t, bob.IsTracking)
	assert.Nil(t, bob.Location)
	assert.Nil(t, bob.DistanceFromPunchIn)

	// Punched out: inactive even with a fresh ping.
	carol := byID["carol"]
	assert.Equal(t, "inactive", carol.Status)
	assert.True(t, carol.HasPunchedOut)
	assert.True(t, carol.IsTracking)

	// No attendance record at all.
	dave := byID["dave"]
	assert.Equal(t, "inactive", dave.Status)
	assert.False(t, dave.HasPunchedIn)
	assert.Empty(t, dave.AttendanceStatus)
	assert.False(t, dave.IsTracking)
}

func TestBuildLiveView_GroupsOnlyActiveTrackedUsers(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	morning := now.Add(-3 * time.Hour)
	fresh := now.Add(-time.Minute)

	users := []user.User{
		testUser("alice", "Alice"),
		testUser("bob", "Bob"),
		testUser("carol", "Carol"),
	}
	atts := map[string]attendance.Attendance{
		"alice": openSession("alice", morning),
		"bob":   openSession("bob", morning),
		// carol punched out; her nearby ping must not join the group
		"carol": closedSession("carol", morning, now.Add(-5*time.Minute)),
	}
	pings := map[string]LocationPing{
		"alice": pingAt("alice", 0, 0, fresh),
		"bob":   pingAt("bob", 0, 0.0004497, fresh), // ~50m from alice
		"carol": pingAt("carol", 0, 0.0002, fresh),
	}

	view := BuildLiveView(users, atts, pings, now, DefaultAggregateOptions())

	require.Len(t, view.Groups, 1)
	assert.Equal(t, 1, view.GroupCount)
	require.Len(t, view.Groups[0].Members, 2)
	assert.Equal(t, "alice", view.Groups[0].Members[0].UserID)
	assert.Equal(t, "bob", view.Groups[0].Members[1].UserID)
	assert.Equal(t, Coordinate{Latitude: 0, Longitude: 0}, view.Groups[0].Center)
}

func TestBuildLiveView_NoUsers(t *testing.T) {
	t.Parallel()

	view := BuildLiveView(nil, nil, nil, time.Now(), DefaultAggregateOptions())

	assert.Zero(t, view.TotalCount)
	assert.Empty(t, view.Users)
	assert.Empty(t, view.Groups)
}

func TestBuildLiveView_WindowBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	morning := now.Add(-3 * time.Hour)

	users := []user.User{testUser("alice", "Alice")}
	atts := map[string]attendance.Attendance{"alice": openSession("alice", morning)}

	// Exactly on the window edge still counts.
	pings := map[string]LocationPing{
		"alice": pingAt("alice", 0, 0, now.Add(-15*time.Minute)),
	}
	view := BuildLiveView(users, atts, pings, now, DefaultAggregateOptions())
	assert.True(t, view.Users[0].IsTracking)

	// One second past the edge does not.
	pings["alice"] = pingAt("alice", 0, 0, now.Add(-15*time.Minute-time.Second))
	view = BuildLiveView(users, atts, pings, now, DefaultAggregateOptions())
	assert.False(t, view.Users[0].IsTracking)
}

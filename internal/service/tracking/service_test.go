package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
	"github.com/stafftrack/attendance-backend-go/internal/domain/user"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/sse"
)

type fakeTrackingRepo struct {
	pings []tracking.LocationPing
}

func (f *fakeTrackingRepo) CreatePing(ctx context.Context, ping tracking.LocationPing) (tracking.LocationPing, error) {
	ping.CreatedAt = time.Now().UTC()
	f.pings = append(f.pings, ping)
	return ping, nil
}

func (f *fakeTrackingRepo) GetLatestPingPerUser(ctx context.Context) (map[string]tracking.LocationPing, error) {
	latest := make(map[string]tracking.LocationPing)
	for _, p := range f.pings {
		if cur, ok := latest[p.UserID]; !ok || p.RecordedAt.After(cur.RecordedAt) {
			latest[p.UserID] = p
		}
	}
	return latest, nil
}

func (f *fakeTrackingRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var kept []tracking.LocationPing
	var deleted int64
	for _, p := range f.pings {
		if p.RecordedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, p)
	}
	f.pings = kept
	return deleted, nil
}

// stubAttendanceRepo serves today's records from a map; the embedded
// interface panics on anything the tracking service should not call.
type stubAttendanceRepo struct {
	attendance.AttendanceRepository
	byUser map[string]attendance.Attendance
}

func (s *stubAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	att, ok := s.byUser[userID]
	if !ok {
		return nil, nil
	}
	found := att
	return &found, nil
}

func (s *stubAttendanceRepo) GetTodayForAllUsers(ctx context.Context, date time.Time) (map[string]attendance.Attendance, error) {
	out := make(map[string]attendance.Attendance, len(s.byUser))
	for id, att := range s.byUser {
		out[id] = att
	}
	return out, nil
}

type stubUserRepo struct {
	users   []user.User
	listErr error
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrUserNotFound
}

func (s *stubUserRepo) ListActive(ctx context.Context) ([]user.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.users, nil
}

func authedContext(t *testing.T, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func openSessionAt(id string, punchedIn time.Time, lat, lon float64) attendance.Attendance {
	return attendance.Attendance{
		ID:               id,
		PunchInTime:      &punchedIn,
		PunchInLatitude:  &lat,
		PunchInLongitude: &lon,
		Status:           attendance.StatusPresent,
	}
}

func TestTrackingService_RecordPing_NoOpenSession(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	in := now.Add(-4 * time.Hour)
	out := now.Add(-time.Hour)
	attRepo := &stubAttendanceRepo{byUser: map[string]attendance.Attendance{
		"u2": {ID: "att-2", UserID: "u2", PunchInTime: &in, PunchOutTime: &out},
	}}
	svc := NewTrackingService(&fakeTrackingRepo{}, attRepo, &stubUserRepo{}, sse.NewHub(), tracking.DefaultAggregateOptions())

	// Never punched in today.
	_, err := svc.RecordPing(authedContext(t, "u1"), tracking.RecordPingRequest{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, tracking.ErrNoOpenSession)

	// Already punched out.
	_, err = svc.RecordPing(authedContext(t, "u2"), tracking.RecordPingRequest{Latitude: 1, Longitude: 1})
	assert.ErrorIs(t, err, tracking.ErrNoOpenSession)
}

func TestTrackingService_RecordPing_StoresDistanceAndBroadcasts(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	session := openSessionAt("att-1", now.Add(-2*time.Hour), 0, 0)
	session.UserID = "u1"
	attRepo := &stubAttendanceRepo{byUser: map[string]attendance.Attendance{"u1": session}}
	userRepo := &stubUserRepo{users: []user.User{
		{ID: "u1", Name: "Alice", Role: user.RoleEmployee, IsActive: true},
	}}
	trackRepo := &fakeTrackingRepo{}
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(LiveTrackingTopic)
	defer cleanup()

	svc := NewTrackingService(trackRepo, attRepo, userRepo, hub, tracking.DefaultAggregateOptions())

	// ~150m east of the punch-in point.
	resp, err := svc.RecordPing(authedContext(t, "u1"), tracking.RecordPingRequest{
		Latitude:  0,
		Longitude: 0.0013490,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "att-1", resp.AttendanceID)
	assert.True(t, resp.IsActive)
	require.NotNil(t, resp.DistanceFromPunchIn)
	assert.InDelta(t, 150, *resp.DistanceFromPunchIn, 1)

	select {
	case ev := <-events:
		assert.Equal(t, "live_update", ev.Event)
		view, ok := ev.Data.(tracking.LiveLocationView)
		require.True(t, ok)
		assert.Equal(t, 1, view.ActiveCount)
		require.Len(t, view.Users, 1)
		assert.True(t, view.Users[0].IsTracking)
	default:
		t.Fatal("expected a live update on the tracking topic")
	}
}

func TestTrackingService_RecordPing_SurvivesViewRebuildFailure(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	session := openSessionAt("att-1", now.Add(-2*time.Hour), 0, 0)
	session.UserID = "u1"
	attRepo := &stubAttendanceRepo{byUser: map[string]attendance.Attendance{"u1": session}}
	userRepo := &stubUserRepo{listErr: errors.New("connection refused")}
	trackRepo := &fakeTrackingRepo{}
	hub := sse.NewHub()
	events, cleanup := hub.Subscribe(LiveTrackingTopic)
	defer cleanup()

	svc := NewTrackingService(trackRepo, attRepo, userRepo, hub, tracking.DefaultAggregateOptions())

	// The ping must be accepted even when the live view cannot be
	// rebuilt for the broadcast.
	resp, err := svc.RecordPing(authedContext(t, "u1"), tracking.RecordPingRequest{Latitude: 1, Longitude: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, trackRepo.pings, 1)

	select {
	case <-events:
		t.Fatal("no event should be published when the rebuild fails")
	default:
	}
}

func TestTrackingService_GetLiveLocations_WrapsRepoError(t *testing.T) {
	t.Parallel()

	userRepo := &stubUserRepo{listErr: errors.New("connection refused")}
	svc := NewTrackingService(&fakeTrackingRepo{}, &stubAttendanceRepo{}, userRepo, sse.NewHub(), tracking.DefaultAggregateOptions())

	_, err := svc.GetLiveLocations(context.Background())
	assert.Error(t, err)
}

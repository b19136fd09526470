package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
	"github.com/stafftrack/attendance-backend-go/internal/domain/user"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/sse"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/utils"
)

// LiveTrackingTopic is the SSE topic carrying live view updates.
const LiveTrackingTopic = "live-tracking"

type TrackingServiceImpl struct {
	tracking.TrackingRepository
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	hub            *sse.Hub
	opts           tracking.AggregateOptions
}

func NewTrackingService(
	trackingRepository tracking.TrackingRepository,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	hub *sse.Hub,
	opts tracking.AggregateOptions,
) tracking.TrackingService {
	return &TrackingServiceImpl{
		TrackingRepository: trackingRepository,
		attendanceRepo:     attendanceRepository,
		userRepo:           userRepository,
		hub:                hub,
		opts:               opts,
	}
}

// RecordPing implements tracking.TrackingService.
func (t *TrackingServiceImpl) RecordPing(ctx context.Context, req tracking.RecordPingRequest) (tracking.PingResponse, error) {
	if err := req.Validate(); err != nil {
		return tracking.PingResponse{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return tracking.PingResponse{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return tracking.PingResponse{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	nowUTC := time.Now().UTC()
	today := nowUTC.Truncate(24 * time.Hour)

	att, err := t.attendanceRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return tracking.PingResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	// Pings are only accepted during an open session; punched-out or
	// never-punched-in users are not tracked.
	if att == nil || !att.IsOpenSession() {
		return tracking.PingResponse{}, tracking.ErrNoOpenSession
	}

	ping := tracking.LocationPing{
		ID:           uuid.NewString(),
		UserID:       userID,
		AttendanceID: att.ID,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
		Address:      req.Address,
		IsActive:     true,
		RecordedAt:   nowUTC,
	}

	if att.PunchInLatitude != nil && att.PunchInLongitude != nil {
		dist := utils.Round2(utils.HaversineDistanceMeters(
			*att.PunchInLatitude, *att.PunchInLongitude,
			req.Latitude, req.Longitude,
		))
		ping.DistanceFromPunchIn = &dist
	}

	created, err := t.TrackingRepository.CreatePing(ctx, ping)
	if err != nil {
		return tracking.PingResponse{}, fmt.Errorf("failed to create location ping: %w", err)
	}

	// Broadcast the refreshed view to live dashboard watchers. A failed
	// rebuild must not fail the ping itself.
	if view, err := t.GetLiveLocations(ctx); err == nil {
		t.hub.Publish(LiveTrackingTopic, sse.Event{
			Topic: LiveTrackingTopic,
			Event: "live_update",
			Data:  view,
		})
	} else {
		slog.Error("Failed to rebuild live view after ping", "user_id", userID, "error", err)
	}

	return tracking.PingResponse{
		ID:                  created.ID,
		AttendanceID:        created.AttendanceID,
		DistanceFromPunchIn: created.DistanceFromPunchIn,
		IsActive:            created.IsActive,
		RecordedAt:          created.RecordedAt.Format(time.RFC3339),
	}, nil
}

// GetLiveLocations implements tracking.TrackingService.
func (t *TrackingServiceImpl) GetLiveLocations(ctx context.Context) (tracking.LiveLocationView, error) {
	nowUTC := time.Now().UTC()
	today := nowUTC.Truncate(24 * time.Hour)

	users, err := t.userRepo.ListActive(ctx)
	if err != nil {
		return tracking.LiveLocationView{}, fmt.Errorf("failed to list active users: %w", err)
	}

	attendanceByUser, err := t.attendanceRepo.GetTodayForAllUsers(ctx, today)
	if err != nil {
		return tracking.LiveLocationView{}, fmt.Errorf("failed to get today's attendances: %w", err)
	}

	latestPingByUser, err := t.TrackingRepository.GetLatestPingPerUser(ctx)
	if err != nil {
		return tracking.LiveLocationView{}, fmt.Errorf("failed to get latest pings: %w", err)
	}

	return tracking.BuildLiveView(users, attendanceByUser, latestPingByUser, nowUTC, t.opts), nil
}

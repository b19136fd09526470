package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
)

// TrackingJobs owns the background maintenance for attendance and
// location data: purging expired pings and sweeping absent users.
type TrackingJobs struct {
	trackingRepo      tracking.TrackingRepository
	attendanceRepo    attendance.AttendanceRepository
	pingRetentionDays int
}

func NewTrackingJobs(
	trackingRepo tracking.TrackingRepository,
	attendanceRepo attendance.AttendanceRepository,
	pingRetentionDays int,
) *TrackingJobs {
	return &TrackingJobs{
		trackingRepo:      trackingRepo,
		attendanceRepo:    attendanceRepo,
		pingRetentionDays: pingRetentionDays,
	}
}

func (j *TrackingJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("purge_expired_pings", 24*time.Hour, j.PurgeExpiredPings)
	scheduler.AddJob("mark_absent_users", 1*time.Hour, j.MarkAbsentUsers)
}

// PurgeExpiredPings deletes location pings past the retention window.
func (j *TrackingJobs) PurgeExpiredPings(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.pingRetentionDays)

	deleted, err := j.trackingRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge expired pings: %w", err)
	}

	if deleted > 0 {
		slog.Info("Cron: Purged expired location pings", "count", deleted, "cutoff", cutoff)
	}
	return nil
}

// MarkAbsentUsers creates absence records for active users with no
// attendance record for yesterday. The status classifier never touches
// records without a punch-in, so these stay absent unless an admin
// changes them.
func (j *TrackingJobs) MarkAbsentUsers(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting mark absent users job")

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)

	userIDs, err := j.attendanceRepo.ListUserIDsWithoutRecord(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to list users without record: %w", err)
	}

	if len(userIDs) == 0 {
		slog.Info("Cron: No users to mark absent")
		return nil
	}

	absences := make([]attendance.Attendance, 0, len(userIDs))
	for _, userID := range userIDs {
		absences = append(absences, attendance.Attendance{
			UserID: userID,
			Date:   yesterday,
			Status: attendance.StatusAbsent,
		})
	}

	if err := j.attendanceRepo.BulkCreateAbsences(ctx, absences); err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	slog.Info("Cron: Marked absent users", "count", len(absences), "date", yesterday.Format("2006-01-02"))
	return nil
}

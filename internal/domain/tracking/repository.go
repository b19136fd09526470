package tracking

import (
	"context"
	"time"
)

// TrackingRepository defines data access methods for location pings.
type TrackingRepository interface {
	CreatePing(ctx context.Context, ping LocationPing) (LocationPing, error)

	// GetLatestPingPerUser returns the most recent active ping per
	// user, keyed by user ID. Time-window filtering happens in the
	// aggregator, not here.
	GetLatestPingPerUser(ctx context.Context) (map[string]LocationPing, error)

	// DeleteOlderThan removes pings recorded before cutoff and returns
	// the number of rows deleted. Used by the retention job.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

package tracking

import (
	"context"
)

// TrackingService defines business logic for live location tracking
type TrackingService interface {
	// RecordPing stores a location sample for the authenticated user's
	// open session and broadcasts the updated live view.
	RecordPing(ctx context.Context, req RecordPingRequest) (PingResponse, error)

	// GetLiveLocations builds the consolidated live tracking view
	GetLiveLocations(ctx context.Context) (LiveLocationView, error)
}

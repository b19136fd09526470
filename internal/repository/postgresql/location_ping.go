package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/stafftrack/attendance-backend-go/internal/domain/tracking"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/database"
)

type trackingRepository struct {
	db *database.DB
}

// CreatePing implements tracking.TrackingRepository.
func (t *trackingRepository) CreatePing(ctx context.Context, ping tracking.LocationPing) (tracking.LocationPing, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		INSERT INTO location_pings (
			id, user_id, attendance_id, latitude, longitude,
			accuracy, address, distance_from_punch_in, is_active, recorded_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		ping.ID,
		ping.UserID,
		ping.AttendanceID,
		ping.Latitude,
		ping.Longitude,
		ping.Accuracy,
		ping.Address,
		ping.DistanceFromPunchIn,
		ping.IsActive,
		ping.RecordedAt,
	).Scan(&ping.CreatedAt)

	if err != nil {
		return tracking.LocationPing{}, fmt.Errorf("failed to create location ping: %w", err)
	}

	return ping, nil
}

// GetLatestPingPerUser implements tracking.TrackingRepository.
func (t *trackingRepository) GetLatestPingPerUser(ctx context.Context) (map[string]tracking.LocationPing, error) {
	q := GetQuerier(ctx, t.db)

	query := `
		SELECT DISTINCT ON (user_id)
			id, user_id, attendance_id, latitude, longitude,
			accuracy, address, distance_from_punch_in, is_active, recorded_at, created_at
		FROM location_pings
		WHERE is_active = TRUE
		ORDER BY user_id, recorded_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest pings: %w", err)
	}
	defer rows.Close()

	byUser := make(map[string]tracking.LocationPing)
	for rows.Next() {
		var ping tracking.LocationPing
		err := rows.Scan(
			&ping.ID, &ping.UserID, &ping.AttendanceID, &ping.Latitude, &ping.Longitude,
			&ping.Accuracy, &ping.Address, &ping.DistanceFromPunchIn, &ping.IsActive,
			&ping.RecordedAt, &ping.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location ping: %w", err)
		}
		byUser[ping.UserID] = ping
	}

	return byUser, nil
}

// DeleteOlderThan implements tracking.TrackingRepository.
func (t *trackingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, t.db)

	query := `DELETE FROM location_pings WHERE recorded_at < $1`

	commandTag, err := q.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pings: %w", err)
	}

	return commandTag.RowsAffected(), nil
}

func NewTrackingRepository(db *database.DB) tracking.TrackingRepository {
	return &trackingRepository{db: db}
}

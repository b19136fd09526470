package tracking

import (
	"github.com/stafftrack/attendance-backend-go/internal/pkg/validator"
)

type RecordPingRequest struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Address   *string  `json:"address,omitempty"`
}

func (r *RecordPingRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.Accuracy != nil && *r.Accuracy < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "accuracy",
			Message: "accuracy must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PingResponse struct {
	ID                  string   `json:"id"`
	AttendanceID        string   `json:"attendance_id"`
	DistanceFromPunchIn *float64 `json:"distance_from_punch_in,omitempty"`
	IsActive            bool     `json:"is_active"`
	RecordedAt          string   `json:"recorded_at"`
}

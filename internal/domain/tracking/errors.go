package tracking

import "errors"

// Tracking domain errors
var (
	ErrNoOpenSession = errors.New("no open attendance session; punch in before sending location updates")
	ErrPingNotFound  = errors.New("location ping not found")
)

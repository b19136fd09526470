package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/stafftrack/attendance-backend-go/internal/pkg/utils"
)

type Status string

const (
	StatusPresent     Status = "present"
	StatusAbsent      Status = "absent"
	StatusLate        Status = "late"
	StatusHalfDay     Status = "half_day"
	StatusLateHalfDay Status = "late_half_day"
	StatusLeave       Status = "leave"
	StatusHoliday     Status = "holiday"
)

// Rules holds the thresholds the status classifier evaluates against.
// The late cutoff is a fixed wall-clock cutover at a fixed UTC offset,
// not the employee's local timezone.
type Rules struct {
	UTCOffsetMinutes     int
	LateCutoffHour       int
	LateCutoffMinute     int
	HalfDayHours         float64
	MismatchRadiusMeters float64
}

// DefaultRules returns the legacy thresholds: 10:00 IST (UTC+5:30)
// late cutover, 8 hour half-day boundary, 100m mismatch radius.
func DefaultRules() Rules {
	return Rules{
		UTCOffsetMinutes:     330,
		LateCutoffHour:       10,
		LateCutoffMinute:     0,
		HalfDayHours:         8,
		MismatchRadiusMeters: 100,
	}
}

// isLate shifts t by the configured UTC offset and compares the
// wall-clock result against the cutoff.
func (r Rules) isLate(t time.Time) bool {
	local := t.UTC().Add(time.Duration(r.UTCOffsetMinutes) * time.Minute)
	h, m := local.Hour(), local.Minute()
	return h > r.LateCutoffHour || (h == r.LateCutoffHour && m > r.LateCutoffMinute)
}

// Classify derives status, working hours and the location mismatch
// fields from the punch data on att. It runs on every save path
// (punch-in, punch-out, admin edits) so corrected records always carry
// a consistent derived status.
//
// A record without a punch-in is left untouched: absent/leave/holiday
// are set by other workflows and must not be overridden here.
func Classify(att *Attendance, rules Rules) {
	if att.PunchInTime == nil {
		return
	}

	if att.PunchOutTime == nil {
		// Punch-in only: provisional status, hours unknown.
		if rules.isLate(*att.PunchInTime) {
			att.Status = StatusLate
		} else {
			att.Status = StatusPresent
		}
		return
	}

	hours := utils.Round2(att.PunchOutTime.Sub(*att.PunchInTime).Hours())
	att.ActiveHours = &hours
	att.WorkingHours = &hours

	// Distance check is skipped when any coordinate is missing;
	// attendance without GPS data is still valid.
	if att.PunchInLatitude != nil && att.PunchInLongitude != nil &&
		att.PunchOutLatitude != nil && att.PunchOutLongitude != nil {
		dist := utils.Round2(utils.HaversineDistanceMeters(
			*att.PunchInLatitude, *att.PunchInLongitude,
			*att.PunchOutLatitude, *att.PunchOutLongitude,
		))
		att.LocationDistance = &dist

		if dist > rules.MismatchRadiusMeters {
			att.LocationMismatch = true
			warning := fmt.Sprintf("Punch out location is %dm away from punch in location", int(math.Round(dist)))
			att.LocationWarning = &warning
		} else {
			att.LocationMismatch = false
			att.LocationWarning = nil
		}
	}

	late := rules.isLate(*att.PunchInTime)
	halfDay := hours < rules.HalfDayHours

	switch {
	case late && halfDay:
		att.Status = StatusLateHalfDay
	case late:
		att.Status = StatusLate
	case halfDay:
		att.Status = StatusHalfDay
	default:
		att.Status = StatusPresent
	}
}

package attendance

import (
	"strings"

	"github.com/stafftrack/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type PunchInRequest struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Address    *string  `json:"address,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
	DeviceInfo *string  `json:"device_info,omitempty"`
}

func (r *PunchInRequest) Validate() error {
	var errs validator.ValidationErrors

	// Coordinates are optional; attendance is still recorded without
	// GPS data. When present, both must be valid.
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchOutRequest struct {
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
	Address    *string  `json:"address,omitempty"`
	ImageURL   *string  `json:"image_url,omitempty"`
	DeviceInfo *string  `json:"device_info,omitempty"`
}

func (r *PunchOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be provided together",
		})
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID                string   `json:"id"`
	UserID            string   `json:"user_id"`
	UserName          string   `json:"user_name"`
	Date              string   `json:"date"`
	PunchInTime       *string  `json:"punch_in_time,omitempty"`
	PunchOutTime      *string  `json:"punch_out_time,omitempty"`
	PunchInLatitude   *float64 `json:"punch_in_latitude,omitempty"`
	PunchInLongitude  *float64 `json:"punch_in_longitude,omitempty"`
	PunchInAddress    *string  `json:"punch_in_address,omitempty"`
	PunchOutLatitude  *float64 `json:"punch_out_latitude,omitempty"`
	PunchOutLongitude *float64 `json:"punch_out_longitude,omitempty"`
	PunchOutAddress   *string  `json:"punch_out_address,omitempty"`
	Status            string   `json:"status"`
	ActiveHours       *float64 `json:"active_hours,omitempty"`
	WorkingHours      *float64 `json:"working_hours,omitempty"`
	LocationDistance  *float64 `json:"location_distance,omitempty"`
	LocationMismatch  bool     `json:"location_mismatch"`
	LocationWarning   *string  `json:"location_warning,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

var validStatuses = []string{"present", "absent", "late", "half_day", "late_half_day", "leave", "holiday"}

type AttendanceFilter struct {
	// Search & Filter
	UserID    *string `json:"user_id,omitempty"`
	UserName  *string `json:"user_name,omitempty"`
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, user_name, punch_in_time, punch_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.SortBy != "" {
		validSortFields := []string{"date", "user_name", "punch_in_time", "punch_out_time", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: " + strings.Join(validSortFields, ", "),
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyAttendanceFilter struct {
	Date      *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status    *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	for field, value := range map[string]*string{
		"date":       f.Date,
		"start_date": f.StartDate,
		"end_date":   f.EndDate,
	} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TodayStatusResponse tells a client whether the punch-in/punch-out
// actions are available right now.
type TodayStatusResponse struct {
	Date          string              `json:"date"`
	HasPunchedIn  bool                `json:"has_punched_in"`
	HasPunchedOut bool                `json:"has_punched_out"`
	Attendance    *AttendanceResponse `json:"attendance,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// UpdateAttendanceRequest lets admins fix wrong punch data. The status
// classifier re-runs on save, so a corrected record never keeps a
// stale derived status.
type UpdateAttendanceRequest struct {
	ID                string   `json:"-"`
	PunchInTime       *string  `json:"punch_in_time,omitempty"`  // RFC3339
	PunchOutTime      *string  `json:"punch_out_time,omitempty"` // RFC3339
	PunchInLatitude   *float64 `json:"punch_in_latitude,omitempty"`
	PunchInLongitude  *float64 `json:"punch_in_longitude,omitempty"`
	PunchOutLatitude  *float64 `json:"punch_out_latitude,omitempty"`
	PunchOutLongitude *float64 `json:"punch_out_longitude,omitempty"`
	Status            *string  `json:"status,omitempty"` // only applied to records without a punch-in
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !validator.IsInSlice(strings.ToLower(*r.Status), validStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(validStatuses, ", "),
		})
	}

	if r.PunchInLatitude != nil && !validator.IsValidLatitude(*r.PunchInLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_in_latitude",
			Message: "punch_in_latitude must be between -90 and 90",
		})
	}

	if r.PunchInLongitude != nil && !validator.IsValidLongitude(*r.PunchInLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_in_longitude",
			Message: "punch_in_longitude must be between -180 and 180",
		})
	}

	if r.PunchOutLatitude != nil && !validator.IsValidLatitude(*r.PunchOutLatitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_out_latitude",
			Message: "punch_out_latitude must be between -90 and 90",
		})
	}

	if r.PunchOutLongitude != nil && !validator.IsValidLongitude(*r.PunchOutLongitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_out_longitude",
			Message: "punch_out_longitude must be between -180 and 180",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

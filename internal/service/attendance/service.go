package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
	"github.com/stafftrack/attendance-backend-go/internal/pkg/database"
	"github.com/stafftrack/attendance-backend-go/internal/repository/postgresql"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	rules attendance.Rules
}

func NewAttendanceService(db *database.DB, attendanceRepository attendance.AttendanceRepository, rules attendance.Rules) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepository,
		rules:                rules,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}

	return userID, nil
}

func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	userName := ""
	if att.UserName != nil {
		userName = *att.UserName
	}

	return attendance.AttendanceResponse{
		ID:                att.ID,
		UserID:            att.UserID,
		UserName:          userName,
		Date:              att.Date.Format("2006-01-02"),
		PunchInTime:       timePtrToString(att.PunchInTime),
		PunchOutTime:      timePtrToString(att.PunchOutTime),
		PunchInLatitude:   att.PunchInLatitude,
		PunchInLongitude:  att.PunchInLongitude,
		PunchInAddress:    att.PunchInAddress,
		PunchOutLatitude:  att.PunchOutLatitude,
		PunchOutLongitude: att.PunchOutLongitude,
		PunchOutAddress:   att.PunchOutAddress,
		Status:            string(att.Status),
		ActiveHours:       att.ActiveHours,
		WorkingHours:      att.WorkingHours,
		LocationDistance:  att.LocationDistance,
		LocationMismatch:  att.LocationMismatch,
		LocationWarning:   att.LocationWarning,
		CreatedAt:         att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         att.UpdatedAt.Format(time.RFC3339),
	}
}

// PunchIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchIn(ctx context.Context, req attendance.PunchInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := time.Now().UTC()
	// Date is the work day, not a timestamp
	today := nowUTC.Truncate(24 * time.Hour)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing != nil && existing.HasPunchedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyPunchedIn
	}

	var saved attendance.Attendance

	if existing != nil {
		// A record without a punch-in exists (absent sweep or admin
		// entry); attach the punch-in to it.
		existing.PunchInTime = &nowUTC
		existing.PunchInLatitude = req.Latitude
		existing.PunchInLongitude = req.Longitude
		existing.PunchInAddress = req.Address
		existing.PunchInImageURL = req.ImageURL
		existing.PunchInDeviceInfo = req.DeviceInfo
		attendance.Classify(existing, a.rules)

		if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
		}
		saved = *existing
	} else {
		data := attendance.Attendance{
			UserID:            userID,
			Date:              today,
			PunchInTime:       &nowUTC,
			PunchInLatitude:   req.Latitude,
			PunchInLongitude:  req.Longitude,
			PunchInAddress:    req.Address,
			PunchInImageURL:   req.ImageURL,
			PunchInDeviceInfo: req.DeviceInfo,
		}
		attendance.Classify(&data, a.rules)

		// The (user_id, date) uniqueness constraint backstops
		// concurrent punch-ins; Create maps the violation to
		// ErrAlreadyPunchedIn.
		saved, err = a.AttendanceRepository.Create(ctx, data)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
	}

	result, err := a.AttendanceRepository.GetByID(ctx, saved.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", err)
	}

	return mapAttendanceToResponse(result), nil
}

// PunchOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) PunchOut(ctx context.Context, req attendance.PunchOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := time.Now().UTC()
	today := nowUTC.Truncate(24 * time.Hour)

	existing, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing == nil || !existing.HasPunchedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNotPunchedIn
	}
	if existing.HasPunchedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyPunchedOut
	}

	existing.PunchOutTime = &nowUTC
	existing.PunchOutLatitude = req.Latitude
	existing.PunchOutLongitude = req.Longitude
	existing.PunchOutAddress = req.Address
	existing.PunchOutImageURL = req.ImageURL
	existing.PunchOutDeviceInfo = req.DeviceInfo
	attendance.Classify(existing, a.rules)

	if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	result, err := a.AttendanceRepository.GetByID(ctx, existing.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", err)
	}

	return mapAttendanceToResponse(result), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.GetMyAttendance(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get attendance records: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	resp := attendance.TodayStatusResponse{
		Date: today.Format("2006-01-02"),
	}

	att, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if att != nil {
		resp.HasPunchedIn = att.HasPunchedIn()
		resp.HasPunchedOut = att.HasPunchedOut()
		mapped := mapAttendanceToResponse(*att)
		resp.Attendance = &mapped
	}

	return resp, nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return buildListResponse(attendances, total, filter.Page, filter.Limit), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// Read-modify-write inside a transaction so concurrent edits cannot
	// interleave between the load and the save.
	err := postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		return a.applyUpdate(txCtx, req)
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	result, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to reload attendance: %w", err)
	}

	return mapAttendanceToResponse(result), nil
}

func (a *AttendanceServiceImpl) applyUpdate(ctx context.Context, req attendance.UpdateAttendanceRequest) error {
	att, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}

	if req.PunchInTime != nil {
		t, err := time.Parse(time.RFC3339, *req.PunchInTime)
		if err != nil {
			return fmt.Errorf("invalid punch_in_time: %w", err)
		}
		utc := t.UTC()
		att.PunchInTime = &utc
	}
	if req.PunchOutTime != nil {
		t, err := time.Parse(time.RFC3339, *req.PunchOutTime)
		if err != nil {
			return fmt.Errorf("invalid punch_out_time: %w", err)
		}
		utc := t.UTC()
		att.PunchOutTime = &utc
	}
	if req.PunchInLatitude != nil {
		att.PunchInLatitude = req.PunchInLatitude
	}
	if req.PunchInLongitude != nil {
		att.PunchInLongitude = req.PunchInLongitude
	}
	if req.PunchOutLatitude != nil {
		att.PunchOutLatitude = req.PunchOutLatitude
	}
	if req.PunchOutLongitude != nil {
		att.PunchOutLongitude = req.PunchOutLongitude
	}

	// Manual status only sticks on records without a punch-in;
	// anything else is re-derived from the punch data below.
	if req.Status != nil && !att.HasPunchedIn() {
		att.Status = attendance.Status(*req.Status)
	}

	attendance.Classify(&att, a.rules)

	return a.AttendanceRepository.Update(ctx, att)
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return mapAttendanceToResponse(att), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	return a.AttendanceRepository.Delete(ctx, id)
}

func buildListResponse(attendances []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		Attendances: responses,
	}
}

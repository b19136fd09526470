package attendance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stafftrack/attendance-backend-go/internal/domain/attendance"
)

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func dayKey(userID string, date time.Time) string {
	return userID + "|" + date.UTC().Format("2006-01-02")
}

// seed inserts a record directly, bypassing the punch flow.
func (f *fakeAttendanceRepo) seed(att attendance.Attendance) attendance.Attendance {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	if att.ID == "" {
		att.ID = fmt.Sprintf("att-%d", f.seq)
	}
	f.records[att.ID] = att
	return att
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirrors the (user_id, date) uniqueness constraint.
	for _, existing := range f.records {
		if dayKey(existing.UserID, existing.Date) == dayKey(att.UserID, att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyPunchedIn
		}
	}

	f.seq++
	att.ID = fmt.Sprintf("att-%d", f.seq)
	att.CreatedAt = time.Now().UTC()
	att.UpdatedAt = att.CreatedAt
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, att := range f.records {
		if dayKey(att.UserID, att.Date) == dayKey(userID, date) {
			found := att
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) GetTodayForAllUsers(ctx context.Context, date time.Time) (map[string]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]attendance.Attendance)
	for _, att := range f.records {
		if att.Date.UTC().Format("2006-01-02") == date.UTC().Format("2006-01-02") {
			out[att.UserID] = att
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[att.ID]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	att.UpdatedAt = time.Now().UTC()
	f.records[att.ID] = att
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, att := range f.records {
		out = append(out, att)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) GetMyAttendance(ctx context.Context, userID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.UserID == userID {
			out = append(out, att)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(f.records, id)
	return nil
}

func (f *fakeAttendanceRepo) ListUserIDsWithoutRecord(ctx context.Context, date time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) BulkCreateAbsences(ctx context.Context, absences []attendance.Attendance) error {
	for _, att := range absences {
		f.seed(att)
	}
	return nil
}

// authedContext builds a context carrying verified claims, the way the
// jwtauth middleware does for real requests.
func authedContext(t *testing.T, userID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestAttendanceService(repo attendance.AttendanceRepository) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{AttendanceRepository: repo, rules: attendance.DefaultRules()}
}

func TestAttendanceService_PunchIn_Twice(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)
	ctx := authedContext(t, "u1")

	first, err := svc.PunchIn(ctx, attendance.PunchInRequest{})
	require.NoError(t, err)
	require.NotNil(t, first.PunchInTime)

	_, err = svc.PunchIn(ctx, attendance.PunchInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedIn)

	// The original punch-in must survive the rejected attempt.
	stored, err := repo.GetByID(context.Background(), first.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PunchInTime)
	assert.Equal(t, *first.PunchInTime, stored.PunchInTime.Format(time.RFC3339))
}

func TestAttendanceService_PunchIn_AttachesToAbsenceRecord(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)
	ctx := authedContext(t, "u1")

	// The midnight sweep may have created an absent record already.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	seeded := repo.seed(attendance.Attendance{
		UserID: "u1",
		Date:   today,
		Status: attendance.StatusAbsent,
	})

	resp, err := svc.PunchIn(ctx, attendance.PunchInRequest{})
	require.NoError(t, err)

	assert.Equal(t, seeded.ID, resp.ID)
	require.NotNil(t, resp.PunchInTime)
	assert.Contains(t, []string{"present", "late"}, resp.Status)
}

func TestAttendanceService_PunchOut_WithoutPunchIn(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)
	ctx := authedContext(t, "u1")

	_, err := svc.PunchOut(ctx, attendance.PunchOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)

	// A record without a punch-in (absent sweep) is not enough either.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	repo.seed(attendance.Attendance{UserID: "u1", Date: today, Status: attendance.StatusAbsent})

	_, err = svc.PunchOut(ctx, attendance.PunchOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotPunchedIn)
}

func TestAttendanceService_PunchOut_Twice(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)
	ctx := authedContext(t, "u1")

	_, err := svc.PunchIn(ctx, attendance.PunchInRequest{})
	require.NoError(t, err)

	resp, err := svc.PunchOut(ctx, attendance.PunchOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.PunchOutTime)
	require.NotNil(t, resp.ActiveHours)

	_, err = svc.PunchOut(ctx, attendance.PunchOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyPunchedOut)
}

func TestAttendanceService_Update_RederivesStatus(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	punchIn := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC) // 10:30 at +05:30: late
	punchOut := punchIn.Add(9 * time.Hour)
	seeded := repo.seed(attendance.Attendance{
		UserID:       "u1",
		Date:         date,
		PunchInTime:  &punchIn,
		PunchOutTime: &punchOut,
		Status:       attendance.StatusLate,
	})

	// Correcting the punch-in to 09:30 local must flip late to present
	// and recompute the hours.
	corrected := "2026-03-02T04:00:00Z"
	err := svc.applyUpdate(context.Background(), attendance.UpdateAttendanceRequest{
		ID:          seeded.ID,
		PunchInTime: &corrected,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, stored.Status)
	require.NotNil(t, stored.ActiveHours)
	assert.Equal(t, 10.0, *stored.ActiveHours)
}

func TestAttendanceService_Update_ManualStatusRules(t *testing.T) {
	t.Parallel()

	repo := newFakeAttendanceRepo()
	svc := newTestAttendanceService(repo)

	// Without a punch-in the manual status sticks.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	noPunch := repo.seed(attendance.Attendance{UserID: "u1", Date: date, Status: attendance.StatusAbsent})

	holiday := "holiday"
	err := svc.applyUpdate(context.Background(), attendance.UpdateAttendanceRequest{
		ID:     noPunch.ID,
		Status: &holiday,
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), noPunch.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, stored.Status)

	// With punch data the classifier wins over the manual status.
	punchIn := time.Date(2026, 3, 2, 5, 0, 0, 0, time.UTC) // late
	punchOut := punchIn.Add(9 * time.Hour)
	punched := repo.seed(attendance.Attendance{
		UserID:       "u2",
		Date:         date,
		PunchInTime:  &punchIn,
		PunchOutTime: &punchOut,
		Status:       attendance.StatusLate,
	})

	present := "present"
	err = svc.applyUpdate(context.Background(), attendance.UpdateAttendanceRequest{
		ID:     punched.ID,
		Status: &present,
	})
	require.NoError(t, err)

	stored, err = repo.GetByID(context.Background(), punched.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, stored.Status)
}

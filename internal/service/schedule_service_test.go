package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type scheduleRepoStub struct {
	intervals      []models.ScheduleInterval
	intervalsErr   error
	created        *models.FixedSchedule
	createdOccs    []models.Occurrence
	createErr      error
	byRoom         []models.ScheduleWithDays
	occDetail      *models.OccurrenceDetail
	occDetailErr   error
	deleteOccErr   error
	deleteOccCalls int
}

func (s *scheduleRepoStub) FindIntervals(ctx context.Context, roomID, semesterID, excludeID string) ([]models.ScheduleInterval, error) {
	return s.intervals, s.intervalsErr
}

func (s *scheduleRepoStub) CreateWithOccurrences(ctx context.Context, schedule *models.FixedSchedule, occurrences []models.Occurrence) error {
	if s.createErr != nil {
		return s.createErr
	}
	schedule.ID = "sched-1"
	s.created = schedule
	s.createdOccs = occurrences
	return nil
}

func (s *scheduleRepoStub) ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleWithDays, error) {
	return s.byRoom, nil
}

func (s *scheduleRepoStub) ListByInstructor(ctx context.Context, instructorID string) ([]models.ScheduleWithDays, error) {
	return nil, nil
}

func (s *scheduleRepoStub) FindOccurrenceDetail(ctx context.Context, id string) (*models.OccurrenceDetail, error) {
	if s.occDetailErr != nil {
		return nil, s.occDetailErr
	}
	return s.occDetail, nil
}

func (s *scheduleRepoStub) DeleteOccurrence(ctx context.Context, id string) error {
	s.deleteOccCalls++
	return s.deleteOccErr
}

func (s *scheduleRepoStub) Delete(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

type semesterLookupStub struct {
	semesters map[string]*models.Semester
}

func (s semesterLookupStub) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	if sem, ok := s.semesters[id]; ok {
		return sem, nil
	}
	return nil, sql.ErrNoRows
}

type auditStub struct {
	entries []string
}

func (a *auditStub) Record(userID, actionType, description string) {
	a.entries = append(a.entries, actionType+": "+description)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeSemester() *models.Semester {
	return &models.Semester{
		ID:        "sem-1",
		Active:    true,
		StartDate: date(2025, time.September, 1),
		EndDate:   date(2025, time.September, 28),
	}
}

func validCreateRequest() CreateScheduleRequest {
	return CreateScheduleRequest{
		RoomID:       "room-1",
		SemesterID:   "sem-1",
		SubjectID:    "subj-1",
		InstructorID: "inst-1",
		SectionID:    "sec-1",
		StartTime:    "08:00:00",
		EndTime:      "09:30:00",
		Days:         []string{"Monday", "Wednesday"},
	}
}

func TestCreateScheduleExpandsOccurrences(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, semesterLookupStub{map[string]*models.Semester{"sem-1": activeSemester()}}, &auditStub{}, nil, nil)

	result, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// Sept 2025: Mondays 1,8,15,22 and Wednesdays 3,10,17,24 within the window.
	assert.Equal(t, 8, result.OccurrenceCount)
	assert.Equal(t, "sched-1", result.ScheduleID)
	require.Len(t, repo.createdOccs, 8)
	assert.Equal(t, date(2025, time.September, 1), repo.createdOccs[0].Date)
	assert.Equal(t, "Monday", repo.createdOccs[0].DayLabel)
}

func TestCreateScheduleRejectsOverlap(t *testing.T) {
	repo := &scheduleRepoStub{
		intervals: []models.ScheduleInterval{
			{ID: "other", StartTime: "09:00:00", EndTime: "10:00:00", Days: "Monday,Friday"},
		},
	}
	svc := NewScheduleService(repo, semesterLookupStub{map[string]*models.Semester{"sem-1": activeSemester()}}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestCreateScheduleAllowsAdjacentWindows(t *testing.T) {
	// An existing schedule ending exactly when the new one starts is no
	// conflict; intervals are half-open.
	repo := &scheduleRepoStub{
		intervals: []models.ScheduleInterval{
			{ID: "other", StartTime: "06:30:00", EndTime: "08:00:00", Days: "Monday"},
		},
	}
	svc := NewScheduleService(repo, semesterLookupStub{map[string]*models.Semester{"sem-1": activeSemester()}}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
}

func TestCreateScheduleIgnoresOverlapOnDisjointDays(t *testing.T) {
	repo := &scheduleRepoStub{
		intervals: []models.ScheduleInterval{
			{ID: "other", StartTime: "08:00:00", EndTime: "09:30:00", Days: "Tuesday,Thursday"},
		},
	}
	svc := NewScheduleService(repo, semesterLookupStub{map[string]*models.Semester{"sem-1": activeSemester()}}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
}

func TestCreateScheduleInactiveSemester(t *testing.T) {
	sem := activeSemester()
	sem.Active = false
	svc := NewScheduleService(&scheduleRepoStub{}, semesterLookupStub{map[string]*models.Semester{"sem-1": sem}}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSemesterInactive.Code, appErrors.FromError(err).Code)
}

func TestCreateScheduleUnknownSemester(t *testing.T) {
	svc := NewScheduleService(&scheduleRepoStub{}, semesterLookupStub{}, &auditStub{}, nil, nil)

	req := validCreateRequest()
	req.SemesterID = "missing"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateScheduleUnknownDaysYieldZeroOccurrences(t *testing.T) {
	repo := &scheduleRepoStub{}
	svc := NewScheduleService(repo, semesterLookupStub{map[string]*models.Semester{"sem-1": activeSemester()}}, &auditStub{}, nil, nil)

	req := validCreateRequest()
	req.Days = []string{"Funday"}
	result, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 0, result.OccurrenceCount)
	assert.NotNil(t, repo.created)
}

func TestDeleteOccurrenceRecordsAudit(t *testing.T) {
	audit := &auditStub{}
	repo := &scheduleRepoStub{
		occDetail: &models.OccurrenceDetail{
			ID:        "occ-1",
			Date:      date(2025, time.September, 8),
			StartTime: "08:00:00",
			EndTime:   "09:30:00",
			Subject:   "Algorithms",
			RoomName:  "Lab 2",
		},
	}
	svc := NewScheduleService(repo, semesterLookupStub{}, audit, nil, nil)

	require.NoError(t, svc.DeleteOccurrence(context.Background(), "occ-1", "admin-1"))
	assert.Equal(t, 1, repo.deleteOccCalls)
	require.Len(t, audit.entries, 1)
	assert.Contains(t, audit.entries[0], "Algorithms")
	assert.Contains(t, audit.entries[0], "Lab 2")
}

func TestDeleteOccurrenceNotFound(t *testing.T) {
	repo := &scheduleRepoStub{occDetailErr: sql.ErrNoRows}
	svc := NewScheduleService(repo, semesterLookupStub{}, &auditStub{}, nil, nil)

	err := svc.DeleteOccurrence(context.Background(), "gone", "admin-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.deleteOccCalls)
}

func TestListByRoomSplitsDayLists(t *testing.T) {
	repo := &scheduleRepoStub{
		byRoom: []models.ScheduleWithDays{
			{ID: "s1", Days: "Monday,Monday,Wednesday"},
			{ID: "s2", Days: ""},
		},
	}
	svc := NewScheduleService(repo, semesterLookupStub{}, &auditStub{}, nil, nil)

	schedules, err := svc.ListByRoom(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, schedules, 2)
	assert.Equal(t, []string{"Monday", "Wednesday"}, schedules[0].DayList)
	assert.Empty(t, schedules[1].DayList)
}

package service

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type occurrenceSourceStub struct {
	events []models.OccurrenceEvent
	from   time.Time
	to     time.Time
	calls  int
}

func (s *occurrenceSourceStub) ListOccurrences(ctx context.Context, roomID, semesterID string, from, to time.Time) ([]models.OccurrenceEvent, error) {
	s.from, s.to = from, to
	s.calls++
	return s.events, nil
}

type cacheStub struct {
	data map[string]string
	sets []string
}

func newCacheStub() *cacheStub {
	return &cacheStub{data: make(map[string]string)}
}

func (c *cacheStub) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := c.data[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.sets = append(c.sets, key)
	if b, ok := value.([]byte); ok {
		c.data[key] = string(b)
	}
	return redis.NewStatusResult("OK", nil)
}

type reservationSourceStub struct {
	events []models.ReservationEvent
}

func (s *reservationSourceStub) ListApprovedEvents(ctx context.Context, roomID string, from, to time.Time) ([]models.ReservationEvent, error) {
	return s.events, nil
}

type activeSemesterStub struct {
	sem *models.Semester
}

func (s activeSemesterStub) FindActive(ctx context.Context) (*models.Semester, error) {
	if s.sem == nil {
		return nil, sql.ErrNoRows
	}
	return s.sem, nil
}

func timetableFixture() (*occurrenceSourceStub, *reservationSourceStub, activeSemesterStub) {
	occ := &occurrenceSourceStub{
		events: []models.OccurrenceEvent{
			{
				OccurrenceID: "occ-late",
				Subject:      "Databases",
				Date:         date(2025, time.September, 1),
				DayLabel:     "Monday",
				StartTime:    "13:00:00",
				EndTime:      "14:30:00",
			},
			{
				OccurrenceID: "occ-early",
				Subject:      "Algorithms",
				Date:         date(2025, time.September, 1),
				DayLabel:     "Monday",
				StartTime:    "08:00:00",
				EndTime:      "09:30:00",
			},
		},
	}
	res := &reservationSourceStub{
		events: []models.ReservationEvent{
			{
				ReservationID: "res-1",
				Subject:       "Club meeting",
				Requester:     "Dana",
				Date:          date(2025, time.September, 1), // a Monday
				StartTime:     "10:00:00",
				EndTime:       "11:00:00",
			},
		},
	}
	sem := activeSemesterStub{sem: activeSemester()}
	return occ, res, sem
}

func TestTimetableMergesAndGroupsByDay(t *testing.T) {
	occ, res, sem := timetableFixture()
	svc := NewTimetableService(occ, res, sem, nil, TimetableCacheConfig{}, nil, nil)

	timetable, err := svc.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	monday := timetable.Days["Monday"]
	require.Len(t, monday, 3)
	assert.Equal(t, "occ-early", monday[0].ID)
	assert.Equal(t, "res-1", monday[1].ID)
	assert.Equal(t, "occ-late", monday[2].ID)

	assert.Equal(t, models.TimetableSourceSchedule, monday[0].Source)
	assert.Equal(t, models.TimetableSourceReservation, monday[1].Source)
	assert.Equal(t, "Monday", monday[1].DayLabel)
	assert.Equal(t, "Dana", monday[1].Instructor)
}

func TestTimetableWindowDefaultsToSemesterWeek(t *testing.T) {
	occ, res, sem := timetableFixture()
	svc := NewTimetableService(occ, res, sem, nil, TimetableCacheConfig{}, nil, nil)

	timetable, err := svc.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, sem.sem.StartDate, timetable.WeekRange.Start)
	assert.Equal(t, sem.sem.StartDate.AddDate(0, 0, 6), timetable.WeekRange.End)
	assert.Equal(t, sem.sem.StartDate, occ.from)
}

func TestTimetableNoActiveSemester(t *testing.T) {
	svc := NewTimetableService(&occurrenceSourceStub{}, &reservationSourceStub{}, activeSemesterStub{}, nil, TimetableCacheConfig{}, nil, nil)

	_, err := svc.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveSemester.Code, appErrors.FromError(err).Code)
}

func TestTimetableExportCSV(t *testing.T) {
	occ, res, sem := timetableFixture()
	svc := NewTimetableService(occ, res, sem, nil, TimetableCacheConfig{}, nil, nil)

	payload, contentType, err := svc.Export(context.Background(), "room-1", time.Time{}, time.Time{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	body := string(payload)
	assert.True(t, strings.HasPrefix(body, "Day,Date,Start,End,Subject,Instructor,Section,Type"))
	assert.Contains(t, body, "Algorithms")
	assert.Contains(t, body, "reservation")

	// Sorted rows: the early occurrence comes before the reservation.
	assert.Less(t, strings.Index(body, "Algorithms"), strings.Index(body, "Club meeting"))
}

func TestTimetableCacheServesSecondReadAndRecordsMetrics(t *testing.T) {
	occ, res, sem := timetableFixture()
	metrics := NewMetricsService()
	svc := NewTimetableService(occ, res, sem, nil, TimetableCacheConfig{Enabled: true, TTL: time.Minute}, metrics, nil)
	cache := newCacheStub()
	svc.cache = cache

	first, err := svc.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	second, err := svc.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, occ.calls, "second read should come from cache")
	assert.Equal(t, first.Semester, second.Semester)
	assert.Len(t, second.Days["Monday"], 3)

	assert.Equal(t, uint64(1), atomic.LoadUint64(&metrics.cacheMissCount))
	assert.Equal(t, uint64(1), atomic.LoadUint64(&metrics.cacheHitCount))
}

func TestTimetableCacheKeyedBySemester(t *testing.T) {
	cache := newCacheStub()

	occ1, res1, sem1 := timetableFixture()
	svc1 := NewTimetableService(occ1, res1, sem1, nil, TimetableCacheConfig{Enabled: true, TTL: time.Minute}, nil, nil)
	svc1.cache = cache
	_, err := svc1.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	// Same room and window under a newly activated semester must not reuse
	// the entry cached for the previous one.
	occ2, res2, _ := timetableFixture()
	nextSem := activeSemester()
	nextSem.ID = "sem-2"
	svc2 := NewTimetableService(occ2, res2, activeSemesterStub{sem: nextSem}, nil, TimetableCacheConfig{Enabled: true, TTL: time.Minute}, nil, nil)
	svc2.cache = cache
	timetable, err := svc2.ForRoom(context.Background(), "room-1", time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, 1, occ2.calls, "stale entry served across semesters")
	assert.Equal(t, "sem-2", timetable.Semester.ID)
	require.Len(t, cache.sets, 2)
	assert.Contains(t, cache.sets[0], sem1.sem.ID)
	assert.Contains(t, cache.sets[1], "sem-2")
	assert.NotEqual(t, cache.sets[0], cache.sets[1])
}

func TestTimetableExportUnknownFormat(t *testing.T) {
	occ, res, sem := timetableFixture()
	svc := NewTimetableService(occ, res, sem, nil, TimetableCacheConfig{}, nil, nil)

	_, _, err := svc.Export(context.Background(), "room-1", time.Time{}, time.Time{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

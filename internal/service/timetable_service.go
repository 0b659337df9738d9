package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	"github.com/noah-isme/campus-facility-api/internal/timeutil"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
	"github.com/noah-isme/campus-facility-api/pkg/export"
)

type occurrenceSource interface {
	ListOccurrences(ctx context.Context, roomID, semesterID string, from, to time.Time) ([]models.OccurrenceEvent, error)
}

type reservationSource interface {
	ListApprovedEvents(ctx context.Context, roomID string, from, to time.Time) ([]models.ReservationEvent, error)
}

type activeSemesterLookup interface {
	FindActive(ctx context.Context) (*models.Semester, error)
}

// TimetableCacheConfig tunes the optional timetable response cache.
type TimetableCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// timetableCache is the slice of the redis client the service touches.
type timetableCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// TimetableService merges fixed-schedule occurrences and approved ad-hoc
// reservations into one day-grouped view per room. The two sources are each
// conflict-free by construction; overlap between a reservation and a fixed
// schedule is left for administrators to spot on the merged view.
type TimetableService struct {
	occurrences  occurrenceSource
	reservations reservationSource
	semesters    activeSemesterLookup
	cache        timetableCache
	cacheCfg     TimetableCacheConfig
	metrics      *MetricsService
	logger       *zap.Logger
}

// NewTimetableService instantiates TimetableService. The redis client and the
// metrics service may each be nil, which disables caching and cache metrics
// respectively.
func NewTimetableService(occurrences occurrenceSource, reservations reservationSource, semesters activeSemesterLookup, cache *redis.Client, cacheCfg TimetableCacheConfig, metrics *MetricsService, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &TimetableService{
		occurrences:  occurrences,
		reservations: reservations,
		semesters:    semesters,
		cacheCfg:     cacheCfg,
		metrics:      metrics,
		logger:       logger,
	}
	if cache != nil {
		s.cache = cache
	}
	return s
}

// ForRoom builds the merged timetable for a room over the requested window.
// A zero `from` defaults to the active semester's start date; a zero `to`
// defaults to six days after `from` (one week view).
func (s *TimetableService) ForRoom(ctx context.Context, roomID string, from, to time.Time) (*models.RoomTimetable, error) {
	sem, err := s.semesters.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNoActiveSemester, "no active semester")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active semester")
	}

	if from.IsZero() {
		from = sem.StartDate
	}
	from = timeutil.Midnight(from)
	if to.IsZero() {
		to = from.AddDate(0, 0, 6)
	}
	to = timeutil.Midnight(to)

	if cached := s.fromCache(ctx, roomID, sem.ID, from, to); cached != nil {
		return cached, nil
	}

	occurrences, err := s.occurrences.ListOccurrences(ctx, roomID, sem.ID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule occurrences")
	}
	reservations, err := s.reservations.ListApprovedEvents(ctx, roomID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approved reservations")
	}

	entries := make([]models.TimetableEntry, 0, len(occurrences)+len(reservations))
	for _, occ := range occurrences {
		entries = append(entries, models.TimetableEntry{
			ID:         occ.OccurrenceID,
			Source:     models.TimetableSourceSchedule,
			Subject:    occ.Subject,
			Instructor: occ.Instructor,
			Section:    occ.Section,
			Date:       occ.Date,
			DayLabel:   occ.DayLabel,
			StartTime:  occ.StartTime,
			EndTime:    occ.EndTime,
		})
	}
	for _, res := range reservations {
		entries = append(entries, models.TimetableEntry{
			ID:         res.ReservationID,
			Source:     models.TimetableSourceReservation,
			Subject:    res.Subject,
			Instructor: res.Requester,
			Section:    res.Section,
			Date:       res.Date,
			DayLabel:   timeutil.Weekday(res.Date.Weekday()).Label(),
			StartTime:  res.StartTime,
			EndTime:    res.EndTime,
		})
	}

	days := make(map[string][]models.TimetableEntry)
	for _, entry := range entries {
		days[entry.DayLabel] = append(days[entry.DayLabel], entry)
	}
	for label := range days {
		group := days[label]
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].Date.Equal(group[j].Date) {
				return group[i].Date.Before(group[j].Date)
			}
			return timeutil.ClockSeconds(group[i].StartTime) < timeutil.ClockSeconds(group[j].StartTime)
		})
		days[label] = group
	}

	timetable := &models.RoomTimetable{
		Semester:  models.SemesterInfo{ID: sem.ID, Term: sem.Term, SchoolYear: sem.SchoolYear},
		WeekRange: models.DateRange{Start: from, End: to},
		Days:      days,
	}

	s.toCache(ctx, roomID, sem.ID, from, to, timetable)
	return timetable, nil
}

// Export flattens the merged timetable into a tabular dataset and renders it
// as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, roomID string, from, to time.Time, format string) ([]byte, string, error) {
	timetable, err := s.ForRoom(ctx, roomID, from, to)
	if err != nil {
		return nil, "", err
	}

	table := export.Table{
		Title:    "Room Timetable",
		Subtitle: fmt.Sprintf("%s %s, %s to %s", timetable.Semester.Term, timetable.Semester.SchoolYear, timetable.WeekRange.Start.Format("2006-01-02"), timetable.WeekRange.End.Format("2006-01-02")),
		Columns:  []string{"Day", "Date", "Start", "End", "Subject", "Instructor", "Section", "Type"},
	}
	labels := make([]string, 0, len(timetable.Days))
	for label := range timetable.Days {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		wi, _ := timeutil.ParseWeekday(labels[i])
		wj, _ := timeutil.ParseWeekday(labels[j])
		return wi < wj
	})
	for _, label := range labels {
		for _, entry := range timetable.Days[label] {
			table.Rows = append(table.Rows, []string{
				label,
				entry.Date.Format("2006-01-02"),
				entry.StartTime,
				entry.EndTime,
				entry.Subject,
				entry.Instructor,
				entry.Section,
				entry.Source,
			})
		}
	}

	switch format {
	case "pdf":
		data, err := export.NewPDFExporter().Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	case "csv", "":
		data, err := export.NewCSVExporter().Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

// cacheKey scopes entries by semester as well as window, so activating a
// different semester never serves a view merged under the previous one.
func (s *TimetableService) cacheKey(roomID, semesterID string, from, to time.Time) string {
	return fmt.Sprintf("timetable:%s:%s:%s:%s", semesterID, roomID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func (s *TimetableService) fromCache(ctx context.Context, roomID, semesterID string, from, to time.Time) *models.RoomTimetable {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return nil
	}
	start := time.Now()
	raw, err := s.cache.Get(ctx, s.cacheKey(roomID, semesterID, from, to)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("timetable cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false, time.Since(start))
		return nil
	}
	var timetable models.RoomTimetable
	if err := json.Unmarshal(raw, &timetable); err != nil {
		s.metrics.RecordCacheOperation(false, time.Since(start))
		return nil
	}
	s.metrics.RecordCacheOperation(true, time.Since(start))
	return &timetable
}

func (s *TimetableService) toCache(ctx context.Context, roomID, semesterID string, from, to time.Time, timetable *models.RoomTimetable) {
	if s.cache == nil || !s.cacheCfg.Enabled {
		return
	}
	raw, err := json.Marshal(timetable)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cacheKey(roomID, semesterID, from, to), raw, s.cacheCfg.TTL).Err(); err != nil {
		s.logger.Debug("timetable cache write failed", zap.Error(err))
	}
}

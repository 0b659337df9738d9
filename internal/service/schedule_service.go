package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	"github.com/noah-isme/campus-facility-api/internal/timeutil"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type scheduleRepository interface {
	FindIntervals(ctx context.Context, roomID, semesterID, excludeID string) ([]models.ScheduleInterval, error)
	CreateWithOccurrences(ctx context.Context, schedule *models.FixedSchedule, occurrences []models.Occurrence) error
	ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleWithDays, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]models.ScheduleWithDays, error)
	FindOccurrenceDetail(ctx context.Context, id string) (*models.OccurrenceDetail, error)
	DeleteOccurrence(ctx context.Context, id string) error
	Delete(ctx context.Context, ids []string) (int64, error)
}

type semesterLookup interface {
	FindByID(ctx context.Context, id string) (*models.Semester, error)
}

type auditRecorder interface {
	Record(userID, actionType, description string)
}

// CreateScheduleRequest describes payload for creating a fixed schedule.
type CreateScheduleRequest struct {
	RoomID       string   `json:"room_id" validate:"required"`
	SemesterID   string   `json:"semester_id" validate:"required"`
	SubjectID    string   `json:"subject_id" validate:"required"`
	InstructorID string   `json:"instructor_id" validate:"required"`
	SectionID    string   `json:"section_id" validate:"required"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	Days         []string `json:"days" validate:"required,min=1"`
}

// CreateScheduleResult reports the new schedule and how many occurrences
// were generated. A zero count is not an error; it signals a day set or
// semester window that produced nothing and deserves operator attention.
type CreateScheduleResult struct {
	ScheduleID      string `json:"schedule_id"`
	OccurrenceCount int    `json:"occurrence_count"`
}

// ScheduleService owns fixed-schedule creation, conflict checking,
// recurrence expansion, and occurrence lifecycle.
type ScheduleService struct {
	repo      scheduleRepository
	semesters semesterLookup
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, semesters semesterLookup, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, semesters: semesters, audit: audit, validator: validate, logger: logger}
}

// Create validates the payload, rejects overlaps with existing schedules for
// the same room and semester, expands the weekly pattern into concrete
// occurrences over the semester window, and persists schedule plus
// occurrences in one transaction.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*CreateScheduleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required fields")
	}

	sem, err := s.semesters.FindByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid semester id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester")
	}
	if !sem.Active {
		return nil, appErrors.Clone(appErrors.ErrSemesterInactive, "semester is not active")
	}
	if sem.StartDate.IsZero() || sem.EndDate.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester has invalid start/end dates")
	}

	days := timeutil.ParseWeekdaySet(req.Days)

	if err := s.ensureNoConflict(ctx, req.RoomID, req.SemesterID, "", req.StartTime, req.EndTime, days); err != nil {
		return nil, err
	}

	schedule := models.FixedSchedule{
		SemesterID:   req.SemesterID,
		RoomID:       req.RoomID,
		SubjectID:    req.SubjectID,
		InstructorID: req.InstructorID,
		SectionID:    req.SectionID,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	expanded := timeutil.ExpandWeekly(sem.StartDate, sem.EndDate, days)
	occurrences := make([]models.Occurrence, 0, len(expanded))
	for _, occ := range expanded {
		occurrences = append(occurrences, models.Occurrence{
			Date:     occ.Date,
			DayLabel: occ.Weekday.Label(),
		})
	}

	if err := s.repo.CreateWithOccurrences(ctx, &schedule, occurrences); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}

	if len(occurrences) == 0 {
		s.logger.Warn("no occurrences generated for schedule",
			zap.String("schedule_id", schedule.ID),
			zap.Strings("days", req.Days),
			zap.Time("semester_start", sem.StartDate),
			zap.Time("semester_end", sem.EndDate))
	}

	return &CreateScheduleResult{ScheduleID: schedule.ID, OccurrenceCount: len(occurrences)}, nil
}

// ensureNoConflict loads committed schedules for the room and semester and
// rejects the candidate when any existing schedule shares a weekday and its
// time window overlaps. The first conflicting schedule in load order is the
// one reported; no ranking is attempted.
func (s *ScheduleService) ensureNoConflict(ctx context.Context, roomID, semesterID, excludeID, startTime, endTime string, days map[timeutil.Weekday]struct{}) error {
	existing, err := s.repo.FindIntervals(ctx, roomID, semesterID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}

	for _, interval := range existing {
		existingDays := timeutil.ParseWeekdaySet(strings.Split(interval.Days, ","))
		shared := false
		for day := range days {
			if _, ok := existingDays[day]; ok {
				shared = true
				break
			}
		}
		if !shared {
			continue
		}
		if timeutil.ClockOverlaps(startTime, endTime, interval.StartTime, interval.EndTime) {
			conflict := &models.ScheduleConflictError{
				ScheduleID: interval.ID,
				StartTime:  interval.StartTime,
				EndTime:    interval.EndTime,
			}
			return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Error())
		}
	}
	return nil
}

// ListByRoom returns schedules for a room with deduplicated day labels.
func (s *ScheduleService) ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleWithDays, error) {
	schedules, err := s.repo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list room schedules")
	}
	return splitDayLists(schedules), nil
}

// ListByInstructor returns schedules taught by an instructor.
func (s *ScheduleService) ListByInstructor(ctx context.Context, instructorID string) ([]models.ScheduleWithDays, error) {
	schedules, err := s.repo.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor schedules")
	}
	return splitDayLists(schedules), nil
}

// DeleteOccurrence removes a single occurrence, representing a one-off
// cancellation, and records an audit entry. Repeating the call for the same
// id yields not-found.
func (s *ScheduleService) DeleteOccurrence(ctx context.Context, id, actorID string) error {
	detail, err := s.repo.FindOccurrenceDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "occurrence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load occurrence")
	}

	if err := s.repo.DeleteOccurrence(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete occurrence")
	}

	s.audit.Record(actorID, models.ActivityRemoveSchedule,
		fmt.Sprintf("Removed schedule for subject %q in room %q on %s (%s - %s).",
			detail.Subject, detail.RoomName, detail.Date.Format("2006-01-02"), detail.StartTime, detail.EndTime))
	return nil
}

// Delete removes whole schedules (and their occurrences) in bulk.
func (s *ScheduleService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no schedule ids provided")
	}
	deleted, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedules")
	}
	return deleted, nil
}

func splitDayLists(schedules []models.ScheduleWithDays) []models.ScheduleWithDays {
	for i := range schedules {
		schedules[i].DayList = dedupeDays(schedules[i].Days)
	}
	return schedules
}

func dedupeDays(csv string) []string {
	if csv == "" {
		return []string{}
	}
	seen := make(map[string]struct{})
	var out []string
	for _, day := range strings.Split(csv, ",") {
		day = strings.TrimSpace(day)
		if day == "" {
			continue
		}
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		out = append(out, day)
	}
	return out
}

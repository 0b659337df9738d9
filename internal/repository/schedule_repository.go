package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

// ScheduleRepository provides persistence for fixed schedules and their
// materialized occurrences.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindIntervals loads every schedule for a room and semester with its
// aggregated weekday labels, the input for schedule conflict checks.
func (r *ScheduleRepository) FindIntervals(ctx context.Context, roomID, semesterID, excludeID string) ([]models.ScheduleInterval, error) {
	base := `SELECT s.id, s.start_time, s.end_time, COALESCE(string_agg(DISTINCT o.day_label, ','), '') AS days
		FROM schedules s
		JOIN occurrences o ON s.id = o.schedule_id
		WHERE s.room_id = $1 AND s.semester_id = $2`
	args := []interface{}{roomID, semesterID}
	if excludeID != "" {
		base += " AND s.id <> $3"
		args = append(args, excludeID)
	}
	base += " GROUP BY s.id, s.start_time, s.end_time"

	var intervals []models.ScheduleInterval
	if err := r.db.SelectContext(ctx, &intervals, base, args...); err != nil {
		return nil, fmt.Errorf("find schedule intervals: %w", err)
	}
	return intervals, nil
}

// CreateWithOccurrences inserts a schedule and bulk-inserts its generated
// occurrences inside one transaction, so a failed expansion never leaves an
// orphaned schedule behind.
func (r *ScheduleRepository) CreateWithOccurrences(ctx context.Context, schedule *models.FixedSchedule, occurrences []models.Occurrence) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create schedule tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSchedule = `INSERT INTO schedules (id, semester_id, room_id, subject_id, instructor_id, section_id, start_time, end_time, created_at) VALUES (:id, :semester_id, :room_id, :subject_id, :instructor_id, :section_id, :start_time, :end_time, :created_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, insertSchedule, schedule); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}

	const insertOccurrence = `INSERT INTO occurrences (id, schedule_id, date, day_label) VALUES (:id, :schedule_id, :date, :day_label)`
	for i := range occurrences {
		occ := occurrences[i]
		if occ.ID == "" {
			occ.ID = uuid.NewString()
		}
		occ.ScheduleID = schedule.ID
		if _, err = sqlx.NamedExecContext(ctx, tx, insertOccurrence, &occ); err != nil {
			return fmt.Errorf("insert occurrence: %w", err)
		}
		occurrences[i] = occ
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create schedule tx: %w", err)
	}
	return nil
}

// ListByRoom returns every schedule for a room with subject, instructor and
// section labels plus its aggregated day labels.
func (r *ScheduleRepository) ListByRoom(ctx context.Context, roomID string) ([]models.ScheduleWithDays, error) {
	const query = `SELECT s.id, subj.code AS subject, ins.name AS instructor, sec.name AS section,
			s.start_time, s.end_time,
			COALESCE(string_agg(DISTINCT o.day_label, ','), '') AS days
		FROM schedules s
		LEFT JOIN occurrences o ON s.id = o.schedule_id
		LEFT JOIN subjects subj ON s.subject_id = subj.id
		LEFT JOIN instructors ins ON s.instructor_id = ins.id
		LEFT JOIN sections sec ON s.section_id = sec.id
		WHERE s.room_id = $1
		GROUP BY s.id, subj.code, ins.name, sec.name, s.start_time, s.end_time
		ORDER BY s.start_time ASC`
	var schedules []models.ScheduleWithDays
	if err := r.db.SelectContext(ctx, &schedules, query, roomID); err != nil {
		return nil, fmt.Errorf("list schedules by room: %w", err)
	}
	return schedules, nil
}

// ListByInstructor returns schedules taught by an instructor, with the room
// attached instead of the instructor.
func (r *ScheduleRepository) ListByInstructor(ctx context.Context, instructorID string) ([]models.ScheduleWithDays, error) {
	const query = `SELECT s.id, subj.code AS subject, ins.name AS instructor, sec.name AS section,
			rm.id AS room_id, rm.name AS room_name,
			s.start_time, s.end_time,
			COALESCE(string_agg(DISTINCT o.day_label, ','), '') AS days
		FROM schedules s
		LEFT JOIN occurrences o ON s.id = o.schedule_id
		LEFT JOIN subjects subj ON s.subject_id = subj.id
		LEFT JOIN instructors ins ON s.instructor_id = ins.id
		LEFT JOIN sections sec ON s.section_id = sec.id
		LEFT JOIN rooms rm ON s.room_id = rm.id
		WHERE s.instructor_id = $1
		GROUP BY s.id, subj.code, ins.name, sec.name, rm.id, rm.name, s.start_time, s.end_time
		ORDER BY s.start_time ASC`
	var schedules []models.ScheduleWithDays
	if err := r.db.SelectContext(ctx, &schedules, query, instructorID); err != nil {
		return nil, fmt.Errorf("list schedules by instructor: %w", err)
	}
	return schedules, nil
}

// ListOccurrences returns occurrence events for a room and semester inside
// an inclusive date window, in date then start-time order.
func (r *ScheduleRepository) ListOccurrences(ctx context.Context, roomID, semesterID string, from, to time.Time) ([]models.OccurrenceEvent, error) {
	const query = `SELECT o.id AS occurrence_id, subj.code AS subject, ins.name AS instructor, sec.name AS section,
			o.date, o.day_label, s.start_time, s.end_time
		FROM schedules s
		JOIN occurrences o ON s.id = o.schedule_id
		JOIN subjects subj ON s.subject_id = subj.id
		JOIN instructors ins ON s.instructor_id = ins.id
		JOIN sections sec ON s.section_id = sec.id
		WHERE s.room_id = $1 AND s.semester_id = $2 AND o.date BETWEEN $3 AND $4
		ORDER BY o.date ASC, s.start_time ASC`
	var events []models.OccurrenceEvent
	if err := r.db.SelectContext(ctx, &events, query, roomID, semesterID, from, to); err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}
	return events, nil
}

// FindOccurrenceDetail loads one occurrence joined with the labels used in
// audit messages.
func (r *ScheduleRepository) FindOccurrenceDetail(ctx context.Context, id string) (*models.OccurrenceDetail, error) {
	const query = `SELECT o.id, o.schedule_id, o.date, o.day_label, s.start_time, s.end_time,
			subj.code AS subject, rm.name AS room_name
		FROM occurrences o
		JOIN schedules s ON o.schedule_id = s.id
		JOIN subjects subj ON s.subject_id = subj.id
		JOIN rooms rm ON s.room_id = rm.id
		WHERE o.id = $1`
	var detail models.OccurrenceDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteOccurrence removes a single occurrence, leaving its parent schedule
// and sibling occurrences untouched.
func (r *ScheduleRepository) DeleteOccurrence(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM occurrences WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete occurrence: %w", err)
	}
	return nil
}

// Delete removes whole schedules by id; occurrences cascade.
func (r *ScheduleRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM schedules WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete schedules: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete schedules: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// Count returns the number of fixed schedules.
func (r *ScheduleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM schedules`); err != nil {
		return 0, fmt.Errorf("count schedules: %w", err)
	}
	return count, nil
}

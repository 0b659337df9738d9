package models

import (
	"fmt"
	"time"
)

// FixedSchedule is a weekly recurring class booking of a room within a
// semester. Start and end are wall-clock strings ("HH:MM:SS"); the weekday
// set lives in the generated occurrences and is fixed at creation.
type FixedSchedule struct {
	ID           string    `db:"id" json:"id"`
	SemesterID   string    `db:"semester_id" json:"semester_id"`
	RoomID       string    `db:"room_id" json:"room_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	InstructorID string    `db:"instructor_id" json:"instructor_id"`
	SectionID    string    `db:"section_id" json:"section_id"`
	StartTime    string    `db:"start_time" json:"start_time"`
	EndTime      string    `db:"end_time" json:"end_time"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Occurrence is one concrete calendar-date instance of a FixedSchedule,
// materialized eagerly at creation. A single occurrence may be deleted on
// its own to represent a one-off cancellation.
type Occurrence struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	Date       time.Time `db:"date" json:"date"`
	DayLabel   string    `db:"day_label" json:"day_label"`
}

// ScheduleWithDays aggregates a schedule with its distinct weekday labels,
// the shape used by room and instructor listings and by conflict checks.
type ScheduleWithDays struct {
	ID         string   `db:"id" json:"schedule_id"`
	Subject    string   `db:"subject" json:"subject"`
	Instructor string   `db:"instructor" json:"instructor"`
	Section    string   `db:"section" json:"section"`
	RoomID     *string  `db:"room_id" json:"room_id,omitempty"`
	RoomName   *string  `db:"room_name" json:"room,omitempty"`
	StartTime  string   `db:"start_time" json:"start_time"`
	EndTime    string   `db:"end_time" json:"end_time"`
	Days       string   `db:"days" json:"-"`
	DayList    []string `json:"days"`
}

// ScheduleInterval is the slim shape loaded for conflict checking: a
// schedule's time window plus its aggregated day labels.
type ScheduleInterval struct {
	ID        string `db:"id"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
	Days      string `db:"days"`
}

// OccurrenceDetail joins an occurrence with the labels needed for audit
// messages when a single occurrence is removed.
type OccurrenceDetail struct {
	ID         string    `db:"id"`
	ScheduleID string    `db:"schedule_id"`
	Date       time.Time `db:"date"`
	DayLabel   string    `db:"day_label"`
	StartTime  string    `db:"start_time"`
	EndTime    string    `db:"end_time"`
	Subject    string    `db:"subject"`
	RoomName   string    `db:"room_name"`
}

// ScheduleConflictError reports the first existing schedule that collides
// with a candidate. Only one conflict is ever surfaced.
type ScheduleConflictError struct {
	ScheduleID string `json:"schedule_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// Error implements the error interface.
func (e *ScheduleConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("schedule overlaps an existing one (%s - %s)", e.StartTime, e.EndTime)
}

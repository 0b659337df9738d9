package models

import "time"

// TimetableEntry sources.
const (
	TimetableSourceSchedule    = "schedule"
	TimetableSourceReservation = "reservation"
)

// TimetableEntry is one merged event in a room timetable, coming either from
// a fixed-schedule occurrence or an approved reservation.
type TimetableEntry struct {
	ID         string    `json:"id"`
	Source     string    `json:"type"`
	Subject    string    `json:"subject"`
	Instructor string    `json:"instructor"`
	Section    string    `json:"section"`
	Date       time.Time `json:"date"`
	DayLabel   string    `json:"day_of_week"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
}

// DateRange is an inclusive date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// OccurrenceEvent is a fixed-schedule occurrence joined with its labels,
// scoped to a room, semester, and date window.
type OccurrenceEvent struct {
	OccurrenceID string    `db:"occurrence_id"`
	Subject      string    `db:"subject"`
	Instructor   string    `db:"instructor"`
	Section      string    `db:"section"`
	Date         time.Time `db:"date"`
	DayLabel     string    `db:"day_label"`
	StartTime    string    `db:"start_time"`
	EndTime      string    `db:"end_time"`
}

// ReservationEvent is an approved room reservation joined with the
// requester's name, scoped to a room and date window.
type ReservationEvent struct {
	ReservationID string    `db:"reservation_id"`
	Subject       string    `db:"subject"`
	Requester     string    `db:"requester"`
	Section       string    `db:"section"`
	Date          time.Time `db:"date"`
	StartTime     string    `db:"start_time"`
	EndTime       string    `db:"end_time"`
}

// RoomTimetable is the merged, day-grouped view of a room over a window.
// The two sources are assumed individually conflict-free; cross-source
// overlap is intentionally not checked here (reservations are reviewed
// against the visible timetable by administrators).
type RoomTimetable struct {
	Semester  SemesterInfo                `json:"semester"`
	WeekRange DateRange                   `json:"week_range"`
	Days      map[string][]TimetableEntry `json:"timetable"`
}

package models

import "time"

// Semester represents an academic term and school-year window. Exactly one
// semester is expected to be active at any time; activation is handled as a
// single transaction in the repository.
type Semester struct {
	ID         string    `db:"id" json:"id"`
	Term       string    `db:"term" json:"term"`
	SchoolYear string    `db:"school_year" json:"school_year"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SemesterInfo is the compact shape embedded in timetable responses.
type SemesterInfo struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	SchoolYear string `json:"school_year"`
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

func TestCreateWithOccurrencesCommitsAtomically(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO occurrences").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO occurrences").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	schedule := &models.FixedSchedule{
		SemesterID: "sem-1", RoomID: "room-1", SubjectID: "subj-1",
		InstructorID: "inst-1", SectionID: "sec-1",
		StartTime: "08:00:00", EndTime: "09:30:00",
	}
	occurrences := []models.Occurrence{
		{Date: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), DayLabel: "Monday"},
		{Date: time.Date(2025, time.September, 3, 0, 0, 0, 0, time.UTC), DayLabel: "Wednesday"},
	}

	require.NoError(t, repo.CreateWithOccurrences(context.Background(), schedule, occurrences))
	assert.NotEmpty(t, schedule.ID)
	assert.Equal(t, schedule.ID, occurrences[0].ScheduleID)
	assert.NotEmpty(t, occurrences[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithOccurrencesRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedules").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO occurrences").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	schedule := &models.FixedSchedule{SemesterID: "sem-1", RoomID: "room-1"}
	occurrences := []models.Occurrence{
		{Date: time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC), DayLabel: "Monday"},
	}

	err := repo.CreateWithOccurrences(context.Background(), schedule, occurrences)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindIntervalsAggregatesDays(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := sqlmock.NewRows([]string{"id", "start_time", "end_time", "days"}).
		AddRow("sched-1", "08:00:00", "09:30:00", "Monday,Wednesday")
	mock.ExpectQuery("SELECT s.id, s.start_time, s.end_time, COALESCE").
		WithArgs("room-1", "sem-1").
		WillReturnRows(rows)

	intervals, err := repo.FindIntervals(context.Background(), "room-1", "sem-1", "")
	require.NoError(t, err)
	require.Len(t, intervals, 1)
	assert.Equal(t, "Monday,Wednesday", intervals[0].Days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindIntervalsExcludesSchedule(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery("SELECT s.id, s.start_time, s.end_time, COALESCE").
		WithArgs("room-1", "sem-1", "skip-me").
		WillReturnRows(sqlmock.NewRows([]string{"id", "start_time", "end_time", "days"}))

	intervals, err := repo.FindIntervals(context.Background(), "room-1", "sem-1", "skip-me")
	require.NoError(t, err)
	assert.Empty(t, intervals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

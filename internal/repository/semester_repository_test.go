package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestFindActiveSemester(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "term", "school_year", "start_date", "end_date", "active", "created_at", "updated_at"}).
		AddRow("sem-1", "Fall", "2025/2026", now, now, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, term, school_year, start_date, end_date, active, created_at, updated_at FROM semesters WHERE active = TRUE LIMIT 1")).
		WillReturnRows(rows)

	sem, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sem-1", sem.ID)
	assert.True(t, sem.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSemesterForcesInactive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectExec("INSERT INTO semesters").WillReturnResult(sqlmock.NewResult(1, 1))

	sem := &models.Semester{Term: "Fall", SchoolYear: "2025/2026", Active: true}
	require.NoError(t, repo.Create(context.Background(), sem))
	assert.False(t, sem.Active)
	assert.NotEmpty(t, sem.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveSemesterSingleTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE semesters SET active = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE semesters SET active = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetActive(context.Background(), "sem-2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetActiveSemesterUnknownIDRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSemesterRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE semesters SET active = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE semesters SET active = TRUE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SetActive(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

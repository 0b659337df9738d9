package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

func TestCreateRoomReservationForcesPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomReservationRepository(db)

	mock.ExpectExec("INSERT INTO room_reservations").WillReturnResult(sqlmock.NewResult(1, 1))

	res := &models.RoomReservation{
		RoomID: "room-1", UserID: "user-1",
		Subject: "Calculus", Section: "A",
		Date:      time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC),
		StartTime: "13:00:00", EndTime: "15:00:00",
		Status: models.ReservationApproved,
	}

	require.NoError(t, repo.Create(context.Background(), res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, models.ReservationPending, res.Status)
	assert.False(t, res.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoomReservationStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomReservationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_reservations SET status = $2 WHERE id = $1`)).
		WithArgs("res-1", models.ReservationApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "res-1", models.ReservationApproved))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRoomReservationStatusUnknownID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomReservationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE room_reservations SET status = $2 WHERE id = $1`)).
		WithArgs("missing", models.ReservationCancelled).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.ReservationCancelled)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindApprovedByRoomAndDateExcludesSelf(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoomReservationRepository(db)

	date := time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "room_id", "user_id", "subject", "section", "date", "start_time", "end_time", "status", "created_at"}).
		AddRow("other", "room-1", "user-2", "Physics", "B", date, "14:00:00", "16:00:00", "approved", time.Now())
	mock.ExpectQuery("SELECT id, room_id, user_id, subject, section, date, start_time, end_time, status, created_at").
		WithArgs("room-1", date, "res-1").
		WillReturnRows(rows)

	reservations, err := repo.FindApprovedByRoomAndDate(context.Background(), "room-1", date, "res-1")
	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "other", reservations[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type roomReservationRepoStub struct {
	reservations map[string]*models.RoomReservation
	approved     []models.RoomReservation
	created      *models.RoomReservation
	statusSet    map[string]models.ReservationStatus
}

func newRoomReservationRepoStub() *roomReservationRepoStub {
	return &roomReservationRepoStub{
		reservations: make(map[string]*models.RoomReservation),
		statusSet:    make(map[string]models.ReservationStatus),
	}
}

func (s *roomReservationRepoStub) List(ctx context.Context) ([]models.RoomReservation, error) {
	return nil, nil
}

func (s *roomReservationRepoStub) FindByID(ctx context.Context, id string) (*models.RoomReservation, error) {
	if res, ok := s.reservations[id]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *roomReservationRepoStub) Create(ctx context.Context, res *models.RoomReservation) error {
	res.ID = "res-1"
	res.Status = models.ReservationPending
	s.created = res
	return nil
}

func (s *roomReservationRepoStub) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	if _, ok := s.reservations[id]; !ok {
		return sql.ErrNoRows
	}
	s.statusSet[id] = status
	s.reservations[id].Status = status
	return nil
}

func (s *roomReservationRepoStub) FindApprovedByRoomAndDate(ctx context.Context, roomID string, d time.Time, excludeID string) ([]models.RoomReservation, error) {
	return s.approved, nil
}

func (s *roomReservationRepoStub) Delete(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

type roomLookupStub struct{}

func (roomLookupStub) FindByID(ctx context.Context, id string) (*models.Room, error) {
	return &models.Room{ID: id, Name: "Lecture Hall A"}, nil
}

func pendingRoomReservation() *models.RoomReservation {
	return &models.RoomReservation{
		ID:        "res-1",
		RoomID:    "room-1",
		UserID:    "user-1",
		Date:      date(2025, time.October, 6),
		StartTime: "13:00:00",
		EndTime:   "15:00:00",
		Status:    models.ReservationPending,
	}
}

func TestRoomReservationCreateEntersPending(t *testing.T) {
	repo := newRoomReservationRepoStub()
	svc := NewRoomReservationService(repo, roomLookupStub{}, &auditStub{}, nil, nil)

	reservation, err := svc.Create(context.Background(), CreateRoomReservationRequest{
		RoomID:    "room-1",
		UserID:    "user-1",
		Date:      "2025-10-06",
		StartTime: "13:00:00",
		EndTime:   "15:00:00",
		Subject:   "Thesis defense",
		Section:   "G-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, reservation.Status)
	assert.Equal(t, date(2025, time.October, 6), reservation.Date)
}

func TestRoomReservationCreateRejectsBadDate(t *testing.T) {
	svc := NewRoomReservationService(newRoomReservationRepoStub(), roomLookupStub{}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoomReservationRequest{
		RoomID:    "room-1",
		UserID:    "user-1",
		Date:      "06/10/2025",
		StartTime: "13:00:00",
		EndTime:   "15:00:00",
		Subject:   "Thesis defense",
		Section:   "G-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRoomReservationApprove(t *testing.T) {
	repo := newRoomReservationRepoStub()
	repo.reservations["res-1"] = pendingRoomReservation()
	audit := &auditStub{}
	svc := NewRoomReservationService(repo, roomLookupStub{}, audit, nil, nil)

	err := svc.Approve(context.Background(), "res-1", TransitionRequest{ActorID: "admin-1", RequesterName: "Dana"})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationApproved, repo.statusSet["res-1"])
	require.Len(t, audit.entries, 1)
	assert.Contains(t, audit.entries[0], "Lecture Hall A")
}

func TestRoomReservationApproveConflict(t *testing.T) {
	repo := newRoomReservationRepoStub()
	repo.reservations["res-1"] = pendingRoomReservation()
	repo.approved = []models.RoomReservation{
		{ID: "other", StartTime: "14:00:00", EndTime: "16:00:00", Status: models.ReservationApproved},
	}
	svc := NewRoomReservationService(repo, roomLookupStub{}, &auditStub{}, nil, nil)

	err := svc.Approve(context.Background(), "res-1", TransitionRequest{ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.statusSet)
}

func TestRoomReservationApproveAllowsAdjacent(t *testing.T) {
	repo := newRoomReservationRepoStub()
	repo.reservations["res-1"] = pendingRoomReservation()
	repo.approved = []models.RoomReservation{
		{ID: "other", StartTime: "15:00:00", EndTime: "17:00:00", Status: models.ReservationApproved},
	}
	svc := NewRoomReservationService(repo, roomLookupStub{}, &auditStub{}, nil, nil)

	require.NoError(t, svc.Approve(context.Background(), "res-1", TransitionRequest{ActorID: "admin-1"}))
}

func TestRoomReservationRejectAfterApproveFails(t *testing.T) {
	repo := newRoomReservationRepoStub()
	reservation := pendingRoomReservation()
	reservation.Status = models.ReservationApproved
	repo.reservations["res-1"] = reservation
	svc := NewRoomReservationService(repo, roomLookupStub{}, &auditStub{}, nil, nil)

	err := svc.Reject(context.Background(), "res-1", TransitionRequest{ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestRoomReservationCancelApproved(t *testing.T) {
	repo := newRoomReservationRepoStub()
	reservation := pendingRoomReservation()
	reservation.Status = models.ReservationApproved
	repo.reservations["res-1"] = reservation
	svc := NewRoomReservationService(repo, roomLookupStub{}, &auditStub{}, nil, nil)

	require.NoError(t, svc.Cancel(context.Background(), "res-1", TransitionRequest{ActorID: "admin-1"}))
	assert.Equal(t, models.ReservationCancelled, repo.statusSet["res-1"])
}

func TestRoomReservationTransitionUnknownID(t *testing.T) {
	svc := NewRoomReservationService(newRoomReservationRepoStub(), roomLookupStub{}, &auditStub{}, nil, nil)

	err := svc.Approve(context.Background(), "missing", TransitionRequest{ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

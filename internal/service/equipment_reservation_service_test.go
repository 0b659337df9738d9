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

type equipmentReservationRepoStub struct {
	reservations map[string]*models.EquipmentReservation
	active       []models.EquipmentReservation
	created      *models.EquipmentReservation
	statusSet    map[string]models.ReservationStatus
}

func newEquipmentReservationRepoStub() *equipmentReservationRepoStub {
	return &equipmentReservationRepoStub{
		reservations: make(map[string]*models.EquipmentReservation),
		statusSet:    make(map[string]models.ReservationStatus),
	}
}

func (s *equipmentReservationRepoStub) List(ctx context.Context) ([]models.EquipmentReservation, error) {
	return nil, nil
}

func (s *equipmentReservationRepoStub) FindByID(ctx context.Context, id string) (*models.EquipmentReservation, error) {
	if res, ok := s.reservations[id]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *equipmentReservationRepoStub) Create(ctx context.Context, res *models.EquipmentReservation) error {
	res.ID = "loan-1"
	res.Status = models.ReservationPending
	s.created = res
	return nil
}

func (s *equipmentReservationRepoStub) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	if _, ok := s.reservations[id]; !ok {
		return sql.ErrNoRows
	}
	s.statusSet[id] = status
	s.reservations[id].Status = status
	return nil
}

func (s *equipmentReservationRepoStub) FindApprovedByEquipment(ctx context.Context, equipmentID, excludeID string) ([]models.EquipmentReservation, error) {
	return s.active, nil
}

func (s *equipmentReservationRepoStub) Delete(ctx context.Context, ids []string) (int64, error) {
	return int64(len(ids)), nil
}

type equipmentStoreStub struct {
	statusSet []models.EquipmentStatus
}

func (s *equipmentStoreStub) FindByID(ctx context.Context, id string) (*models.Equipment, error) {
	return &models.Equipment{ID: id, Name: "Projector", Status: models.EquipmentAvailable}, nil
}

func (s *equipmentStoreStub) UpdateStatus(ctx context.Context, id string, status models.EquipmentStatus) error {
	s.statusSet = append(s.statusSet, status)
	return nil
}

func loanWindow() (time.Time, time.Time) {
	start := time.Date(2025, time.October, 6, 9, 0, 0, 0, time.UTC)
	return start, start.Add(4 * time.Hour)
}

func pendingLoan() *models.EquipmentReservation {
	start, end := loanWindow()
	return &models.EquipmentReservation{
		ID:          "loan-1",
		EquipmentID: "eq-1",
		UserID:      "user-1",
		Purpose:     "Guest lecture",
		StartTime:   start,
		EndTime:     end,
		Status:      models.ReservationPending,
	}
}

func TestEquipmentReservationCreateChecksWindow(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	start, end := loanWindow()
	repo.active = []models.EquipmentReservation{
		{ID: "other", StartTime: start.Add(time.Hour), EndTime: end.Add(time.Hour), Status: models.ReservationApproved},
	}
	svc := NewEquipmentReservationService(repo, &equipmentStoreStub{}, &auditStub{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateEquipmentReservationRequest{
		EquipmentID: "eq-1",
		UserID:      "user-1",
		Purpose:     "Guest lecture",
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestEquipmentReservationCreateAdjacentWindowsAllowed(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	start, end := loanWindow()
	repo.active = []models.EquipmentReservation{
		{ID: "other", StartTime: end, EndTime: end.Add(2 * time.Hour), Status: models.ReservationApproved},
	}
	svc := NewEquipmentReservationService(repo, &equipmentStoreStub{}, &auditStub{}, nil, nil)

	reservation, err := svc.Create(context.Background(), CreateEquipmentReservationRequest{
		EquipmentID: "eq-1",
		UserID:      "user-1",
		Purpose:     "Guest lecture",
		StartTime:   start.Format(time.RFC3339),
		EndTime:     end.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, reservation.Status)
}

func TestEquipmentReservationCreateInvertedWindow(t *testing.T) {
	svc := NewEquipmentReservationService(newEquipmentReservationRepoStub(), &equipmentStoreStub{}, &auditStub{}, nil, nil)

	start, end := loanWindow()
	_, err := svc.Create(context.Background(), CreateEquipmentReservationRequest{
		EquipmentID: "eq-1",
		UserID:      "user-1",
		Purpose:     "Guest lecture",
		StartTime:   end.Format(time.RFC3339),
		EndTime:     start.Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestEquipmentLoanLifecycleStatusEffects(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	repo.reservations["loan-1"] = pendingLoan()
	store := &equipmentStoreStub{}
	svc := NewEquipmentReservationService(repo, store, &auditStub{}, nil, nil)
	ctx := context.Background()
	actor := TransitionRequest{ActorID: "admin-1", RequesterName: "Sam"}

	require.NoError(t, svc.Approve(ctx, "loan-1", actor))
	require.NoError(t, svc.Borrow(ctx, "loan-1", actor))
	require.NoError(t, svc.Return(ctx, "loan-1", actor))

	assert.Equal(t, []models.EquipmentStatus{
		models.EquipmentReserved,
		models.EquipmentBorrowed,
		models.EquipmentAvailable,
	}, store.statusSet)
	assert.Equal(t, models.ReservationReturned, repo.reservations["loan-1"].Status)
}

func TestEquipmentLoanBorrowBeforeApproveFails(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	repo.reservations["loan-1"] = pendingLoan()
	store := &equipmentStoreStub{}
	svc := NewEquipmentReservationService(repo, store, &auditStub{}, nil, nil)

	err := svc.Borrow(context.Background(), "loan-1", TransitionRequest{ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.statusSet)
}

func TestEquipmentLoanCancelApprovedReleasesItem(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	loan := pendingLoan()
	loan.Status = models.ReservationApproved
	repo.reservations["loan-1"] = loan
	store := &equipmentStoreStub{}
	svc := NewEquipmentReservationService(repo, store, &auditStub{}, nil, nil)

	require.NoError(t, svc.Cancel(context.Background(), "loan-1", TransitionRequest{ActorID: "admin-1"}))
	assert.Equal(t, []models.EquipmentStatus{models.EquipmentAvailable}, store.statusSet)
}

func TestEquipmentLoanCancelPendingLeavesItemAlone(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	repo.reservations["loan-1"] = pendingLoan()
	store := &equipmentStoreStub{}
	svc := NewEquipmentReservationService(repo, store, &auditStub{}, nil, nil)

	require.NoError(t, svc.Cancel(context.Background(), "loan-1", TransitionRequest{ActorID: "admin-1"}))
	assert.Empty(t, store.statusSet)
}

func TestEquipmentLoanReturnReAttemptFails(t *testing.T) {
	repo := newEquipmentReservationRepoStub()
	loan := pendingLoan()
	loan.Status = models.ReservationReturned
	repo.reservations["loan-1"] = loan
	svc := NewEquipmentReservationService(repo, &equipmentStoreStub{}, &auditStub{}, nil, nil)

	err := svc.Return(context.Background(), "loan-1", TransitionRequest{ActorID: "admin-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

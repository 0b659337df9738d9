package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type equipmentReservationRepository interface {
	List(ctx context.Context) ([]models.EquipmentReservation, error)
	FindByID(ctx context.Context, id string) (*models.EquipmentReservation, error)
	Create(ctx context.Context, res *models.EquipmentReservation) error
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	FindApprovedByEquipment(ctx context.Context, equipmentID, excludeID string) ([]models.EquipmentReservation, error)
	Delete(ctx context.Context, ids []string) (int64, error)
}

type equipmentStatusStore interface {
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
	UpdateStatus(ctx context.Context, id string, status models.EquipmentStatus) error
}

// CreateEquipmentReservationRequest is the payload for a new borrow request.
// Times are RFC 3339 timestamps since equipment loans may span days.
type CreateEquipmentReservationRequest struct {
	EquipmentID string `json:"equipment_id" validate:"required"`
	UserID      string `json:"user_id" validate:"required"`
	Purpose     string `json:"purpose" validate:"required"`
	StartTime   string `json:"start_time" validate:"required"`
	EndTime     string `json:"end_time" validate:"required"`
}

// EquipmentReservationService manages the equipment loan lifecycle. It
// extends the room state machine with borrowed and returned, and mirrors
// each transition onto the equipment item's own status so the inventory
// view stays consistent with outstanding loans.
type EquipmentReservationService struct {
	repo      equipmentReservationRepository
	equipment equipmentStatusStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEquipmentReservationService instantiates EquipmentReservationService.
func NewEquipmentReservationService(repo equipmentReservationRepository, equipment equipmentStatusStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *EquipmentReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentReservationService{repo: repo, equipment: equipment, audit: audit, validator: validate, logger: logger}
}

// List returns all equipment reservations with item and requester details.
func (s *EquipmentReservationService) List(ctx context.Context) ([]models.EquipmentReservation, error) {
	reservations, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list equipment reservations")
	}
	return reservations, nil
}

// Create submits a borrow request. The requested window is checked against
// approved and outstanding loans for the same item at creation time, so a
// request that can never be approved is rejected up front.
func (s *EquipmentReservationService) Create(ctx context.Context, req CreateEquipmentReservationRequest) (*models.EquipmentReservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all fields are required")
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid start_time, expected RFC 3339 timestamp")
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid end_time, expected RFC 3339 timestamp")
	}
	if !start.Before(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}

	if _, err := s.equipment.FindByID(ctx, req.EquipmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load equipment")
	}

	if err := s.ensureNoConflict(ctx, req.EquipmentID, "", start, end); err != nil {
		return nil, err
	}

	reservation := models.EquipmentReservation{
		EquipmentID: req.EquipmentID,
		UserID:      req.UserID,
		Purpose:     req.Purpose,
		StartTime:   start,
		EndTime:     end,
	}
	if err := s.repo.Create(ctx, &reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create equipment reservation")
	}
	return &reservation, nil
}

// Approve transitions a pending loan to approved, re-checks the window
// against other active loans, and marks the item reserved.
func (s *EquipmentReservationService) Approve(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationApproved)
	if err != nil {
		return err
	}
	if err := s.ensureNoConflict(ctx, reservation.EquipmentID, id, reservation.StartTime, reservation.EndTime); err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationApproved); err != nil {
		return err
	}
	s.setEquipmentStatus(ctx, reservation.EquipmentID, models.EquipmentReserved)
	s.recordTransition(ctx, reservation, req, "Approved")
	return nil
}

// Reject transitions a pending loan to rejected. The item keeps its status.
func (s *EquipmentReservationService) Reject(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationRejected)
	if err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationRejected); err != nil {
		return err
	}
	s.recordTransition(ctx, reservation, req, "Rejected")
	return nil
}

// Cancel transitions a pending or approved loan to cancelled. An approved
// loan releases the item back to available; a pending one never held it.
func (s *EquipmentReservationService) Cancel(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationCancelled)
	if err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationCancelled); err != nil {
		return err
	}
	if reservation.Status == models.ReservationApproved {
		s.setEquipmentStatus(ctx, reservation.EquipmentID, models.EquipmentAvailable)
	}
	s.recordTransition(ctx, reservation, req, "Cancelled")
	return nil
}

// Borrow marks an approved loan as picked up and the item as borrowed.
func (s *EquipmentReservationService) Borrow(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationBorrowed)
	if err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationBorrowed); err != nil {
		return err
	}
	s.setEquipmentStatus(ctx, reservation.EquipmentID, models.EquipmentBorrowed)
	s.recordTransition(ctx, reservation, req, "Marked as borrowed")
	return nil
}

// Return marks a borrowed loan as returned and the item as available again.
func (s *EquipmentReservationService) Return(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationReturned)
	if err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationReturned); err != nil {
		return err
	}
	s.setEquipmentStatus(ctx, reservation.EquipmentID, models.EquipmentAvailable)
	s.recordTransition(ctx, reservation, req, "Marked as returned")
	return nil
}

// Delete removes loan records outright (administrative cleanup).
func (s *EquipmentReservationService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no reservation ids provided")
	}
	deleted, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete equipment reservations")
	}
	return deleted, nil
}

func (s *EquipmentReservationService) ensureNoConflict(ctx context.Context, equipmentID, excludeID string, start, end time.Time) error {
	active, err := s.repo.FindApprovedByEquipment(ctx, equipmentID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check loan conflicts")
	}
	for _, other := range active {
		if start.Before(other.EndTime) && other.StartTime.Before(end) {
			conflict := &models.ReservationConflictError{
				ReservationID: other.ID,
				StartTime:     other.StartTime.Format(time.RFC3339),
				EndTime:       other.EndTime.Format(time.RFC3339),
			}
			return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Error())
		}
	}
	return nil
}

func (s *EquipmentReservationService) loadForTransition(ctx context.Context, id string, target models.ReservationStatus) (*models.EquipmentReservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load equipment reservation")
	}
	if !models.CanTransition(models.ResourceEquipment, reservation.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, target))
	}
	return reservation, nil
}

func (s *EquipmentReservationService) updateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "equipment reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update equipment reservation")
	}
	return nil
}

// setEquipmentStatus is a side effect of a successful transition; a failure
// here leaves the loan record authoritative, so it is logged and dropped.
func (s *EquipmentReservationService) setEquipmentStatus(ctx context.Context, equipmentID string, status models.EquipmentStatus) {
	if err := s.equipment.UpdateStatus(ctx, equipmentID, status); err != nil {
		s.logger.Error("failed to update equipment status",
			zap.String("equipment_id", equipmentID),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

func (s *EquipmentReservationService) recordTransition(ctx context.Context, reservation *models.EquipmentReservation, req TransitionRequest, verb string) {
	itemName := reservation.EquipmentID
	if item, err := s.equipment.FindByID(ctx, reservation.EquipmentID); err == nil {
		itemName = item.Name
	}
	s.audit.Record(req.ActorID, models.ActivityEquipmentReservation,
		fmt.Sprintf("%s reservation of %q for equipment %q (%s - %s).",
			verb, req.RequesterName, itemName,
			reservation.StartTime.Format(time.RFC3339), reservation.EndTime.Format(time.RFC3339)))
}

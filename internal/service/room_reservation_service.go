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
	"github.com/noah-isme/campus-facility-api/internal/timeutil"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type roomReservationRepository interface {
	List(ctx context.Context) ([]models.RoomReservation, error)
	FindByID(ctx context.Context, id string) (*models.RoomReservation, error)
	Create(ctx context.Context, res *models.RoomReservation) error
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error
	FindApprovedByRoomAndDate(ctx context.Context, roomID string, date time.Time, excludeID string) ([]models.RoomReservation, error)
	Delete(ctx context.Context, ids []string) (int64, error)
}

type roomLookup interface {
	FindByID(ctx context.Context, id string) (*models.Room, error)
}

// CreateRoomReservationRequest is the payload for a new room booking request.
type CreateRoomReservationRequest struct {
	RoomID    string `json:"room_id" validate:"required"`
	UserID    string `json:"user_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Section   string `json:"section" validate:"required"`
}

// TransitionRequest identifies the administrator performing a reservation
// transition and the requester's display name for the audit line.
type TransitionRequest struct {
	ActorID       string `json:"actor_id" validate:"required"`
	RequesterName string `json:"requester_name"`
}

// RoomReservationService manages the room reservation lifecycle:
// pending -> approved | rejected | cancelled, approved -> cancelled.
// Only approve performs conflict detection; rejection and cancellation are
// unconditional transitions.
type RoomReservationService struct {
	repo      roomReservationRepository
	rooms     roomLookup
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoomReservationService instantiates RoomReservationService.
func NewRoomReservationService(repo roomReservationRepository, rooms roomLookup, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *RoomReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomReservationService{repo: repo, rooms: rooms, audit: audit, validator: validate, logger: logger}
}

// List returns all room reservations with room and requester details.
func (s *RoomReservationService) List(ctx context.Context) ([]models.RoomReservation, error) {
	reservations, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	return reservations, nil
}

// Create submits a reservation request; it always enters pending, no
// conflict check happens until approval.
func (s *RoomReservationService) Create(ctx context.Context, req CreateRoomReservationRequest) (*models.RoomReservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all fields are required")
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date format, expected YYYY-MM-DD")
	}

	reservation := models.RoomReservation{
		RoomID:    req.RoomID,
		UserID:    req.UserID,
		Subject:   req.Subject,
		Section:   req.Section,
		Date:      timeutil.Midnight(date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.repo.Create(ctx, &reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}
	return &reservation, nil
}

// Approve transitions a pending reservation to approved after checking for
// overlap with other approved reservations on the same room and date. The
// first conflict found aborts the transition and is reported with its
// interval.
func (s *RoomReservationService) Approve(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationApproved)
	if err != nil {
		return err
	}

	existing, err := s.repo.FindApprovedByRoomAndDate(ctx, reservation.RoomID, reservation.Date, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check reservation conflicts")
	}
	for _, other := range existing {
		if timeutil.ClockOverlaps(reservation.StartTime, reservation.EndTime, other.StartTime, other.EndTime) {
			conflict := &models.ReservationConflictError{
				ReservationID: other.ID,
				StartTime:     other.StartTime,
				EndTime:       other.EndTime,
			}
			return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflict.Error())
		}
	}

	if err := s.updateStatus(ctx, id, models.ReservationApproved); err != nil {
		return err
	}
	s.recordTransition(ctx, reservation, req, "Approved")
	return nil
}

// Reject transitions a pending reservation to rejected.
func (s *RoomReservationService) Reject(ctx context.Context, id string, req TransitionRequest) error {
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

// Cancel transitions a pending or approved reservation to cancelled.
func (s *RoomReservationService) Cancel(ctx context.Context, id string, req TransitionRequest) error {
	reservation, err := s.loadForTransition(ctx, id, models.ReservationCancelled)
	if err != nil {
		return err
	}
	if err := s.updateStatus(ctx, id, models.ReservationCancelled); err != nil {
		return err
	}
	s.recordTransition(ctx, reservation, req, "Cancelled")
	return nil
}

// Delete removes reservations outright (administrative cleanup).
func (s *RoomReservationService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no reservation ids provided")
	}
	deleted, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete reservations")
	}
	return deleted, nil
}

func (s *RoomReservationService) loadForTransition(ctx context.Context, id string, target models.ReservationStatus) (*models.RoomReservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reservation")
	}
	if !models.CanTransition(models.ResourceRoom, reservation.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot move reservation from %s to %s", reservation.Status, target))
	}
	return reservation, nil
}

func (s *RoomReservationService) updateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "reservation not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reservation")
	}
	return nil
}

func (s *RoomReservationService) recordTransition(ctx context.Context, reservation *models.RoomReservation, req TransitionRequest, verb string) {
	roomName := reservation.RoomID
	if room, err := s.rooms.FindByID(ctx, reservation.RoomID); err == nil {
		roomName = room.Name
	}
	s.audit.Record(req.ActorID, models.ActivityRoomReservation,
		fmt.Sprintf("%s reservation of %q for room %q on %s (%s - %s).",
			verb, req.RequesterName, roomName, reservation.Date.Format("2006-01-02"), reservation.StartTime, reservation.EndTime))
}

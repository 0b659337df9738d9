package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

// RoomReservationRepository provides persistence for ad-hoc room bookings.
type RoomReservationRepository struct {
	db *sqlx.DB
}

// NewRoomReservationRepository creates a new room reservation repository.
func NewRoomReservationRepository(db *sqlx.DB) *RoomReservationRepository {
	return &RoomReservationRepository{db: db}
}

// List returns all room reservations joined with room and requester details.
func (r *RoomReservationRepository) List(ctx context.Context) ([]models.RoomReservation, error) {
	const query = `SELECT rr.id, rr.room_id, rr.user_id, rr.subject, rr.section, rr.date, rr.start_time, rr.end_time, rr.status, rr.created_at,
			rm.name AS room_name, u.full_name AS user_name, u.email AS user_email
		FROM room_reservations rr
		JOIN rooms rm ON rr.room_id = rm.id
		JOIN users u ON rr.user_id = u.id
		ORDER BY rr.created_at DESC, rr.start_time DESC`
	var reservations []models.RoomReservation
	if err := r.db.SelectContext(ctx, &reservations, query); err != nil {
		return nil, fmt.Errorf("list room reservations: %w", err)
	}
	return reservations, nil
}

// FindByID loads a reservation by id.
func (r *RoomReservationRepository) FindByID(ctx context.Context, id string) (*models.RoomReservation, error) {
	const query = `SELECT id, room_id, user_id, subject, section, date, start_time, end_time, status, created_at FROM room_reservations WHERE id = $1`
	var res models.RoomReservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a reservation request. Requests always start pending.
func (r *RoomReservationRepository) Create(ctx context.Context, res *models.RoomReservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.Status = models.ReservationPending
	res.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO room_reservations (id, room_id, user_id, subject, section, date, start_time, end_time, status, created_at) VALUES (:id, :room_id, :user_id, :subject, :section, :date, :start_time, :end_time, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("create room reservation: %w", err)
	}
	return nil
}

// UpdateStatus transitions a reservation and reports sql.ErrNoRows when the
// id does not resolve.
func (r *RoomReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE room_reservations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update room reservation status: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindApprovedByRoomAndDate loads approved reservations for the same room
// and calendar date, excluding the reservation under review. Results come
// back in creation order so the first detected conflict is deterministic.
func (r *RoomReservationRepository) FindApprovedByRoomAndDate(ctx context.Context, roomID string, date time.Time, excludeID string) ([]models.RoomReservation, error) {
	const query = `SELECT id, room_id, user_id, subject, section, date, start_time, end_time, status, created_at
		FROM room_reservations
		WHERE room_id = $1 AND date = $2 AND status = 'approved' AND id <> $3
		ORDER BY created_at ASC`
	var reservations []models.RoomReservation
	if err := r.db.SelectContext(ctx, &reservations, query, roomID, date, excludeID); err != nil {
		return nil, fmt.Errorf("find approved room reservations: %w", err)
	}
	return reservations, nil
}

// ListApprovedEvents returns approved reservations for a room inside a date
// window, shaped for the timetable merge.
func (r *RoomReservationRepository) ListApprovedEvents(ctx context.Context, roomID string, from, to time.Time) ([]models.ReservationEvent, error) {
	const query = `SELECT rr.id AS reservation_id, rr.subject, u.full_name AS requester, rr.section,
			rr.date, rr.start_time, rr.end_time
		FROM room_reservations rr
		JOIN users u ON rr.user_id = u.id
		WHERE rr.room_id = $1 AND rr.status = 'approved' AND rr.date BETWEEN $2 AND $3
		ORDER BY rr.date ASC, rr.start_time ASC`
	var events []models.ReservationEvent
	if err := r.db.SelectContext(ctx, &events, query, roomID, from, to); err != nil {
		return nil, fmt.Errorf("list approved reservation events: %w", err)
	}
	return events, nil
}

// Delete removes reservations by id.
func (r *RoomReservationRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM room_reservations WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete room reservations: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete room reservations: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// CountPending returns the number of reservations awaiting review.
func (r *RoomReservationRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM room_reservations WHERE status = 'pending'`); err != nil {
		return 0, fmt.Errorf("count pending room reservations: %w", err)
	}
	return count, nil
}

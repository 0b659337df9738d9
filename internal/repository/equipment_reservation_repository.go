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

// EquipmentReservationRepository provides persistence for equipment loans.
type EquipmentReservationRepository struct {
	db *sqlx.DB
}

// NewEquipmentReservationRepository creates a new equipment reservation repository.
func NewEquipmentReservationRepository(db *sqlx.DB) *EquipmentReservationRepository {
	return &EquipmentReservationRepository{db: db}
}

// List returns all equipment reservations joined with item and requester names.
func (r *EquipmentReservationRepository) List(ctx context.Context) ([]models.EquipmentReservation, error) {
	const query = `SELECT er.id, er.equipment_id, er.user_id, er.purpose, er.start_time, er.end_time, er.status, er.created_at,
			e.name AS equipment_name, u.full_name AS user_name
		FROM equipment_reservations er
		JOIN equipment e ON er.equipment_id = e.id
		JOIN users u ON er.user_id = u.id
		ORDER BY er.created_at DESC`
	var reservations []models.EquipmentReservation
	if err := r.db.SelectContext(ctx, &reservations, query); err != nil {
		return nil, fmt.Errorf("list equipment reservations: %w", err)
	}
	return reservations, nil
}

// FindByID loads a reservation by id.
func (r *EquipmentReservationRepository) FindByID(ctx context.Context, id string) (*models.EquipmentReservation, error) {
	const query = `SELECT id, equipment_id, user_id, purpose, start_time, end_time, status, created_at FROM equipment_reservations WHERE id = $1`
	var res models.EquipmentReservation
	if err := r.db.GetContext(ctx, &res, query, id); err != nil {
		return nil, err
	}
	return &res, nil
}

// Create inserts a loan request in pending state.
func (r *EquipmentReservationRepository) Create(ctx context.Context, res *models.EquipmentReservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	res.Status = models.ReservationPending
	res.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO equipment_reservations (id, equipment_id, user_id, purpose, start_time, end_time, status, created_at) VALUES (:id, :equipment_id, :user_id, :purpose, :start_time, :end_time, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, res); err != nil {
		return fmt.Errorf("create equipment reservation: %w", err)
	}
	return nil
}

// UpdateStatus transitions a reservation and reports sql.ErrNoRows when the
// id does not resolve.
func (r *EquipmentReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE equipment_reservations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update equipment reservation status: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindApprovedByEquipment loads approved (or borrowed) reservations for the
// item in creation order. Overlap against the candidate window is evaluated
// by the caller so the first conflict found is the first created.
func (r *EquipmentReservationRepository) FindApprovedByEquipment(ctx context.Context, equipmentID, excludeID string) ([]models.EquipmentReservation, error) {
	const query = `SELECT id, equipment_id, user_id, purpose, start_time, end_time, status, created_at
		FROM equipment_reservations
		WHERE equipment_id = $1 AND status IN ('approved', 'borrowed') AND id <> $2
		ORDER BY created_at ASC`
	var reservations []models.EquipmentReservation
	if err := r.db.SelectContext(ctx, &reservations, query, equipmentID, excludeID); err != nil {
		return nil, fmt.Errorf("find approved equipment reservations: %w", err)
	}
	return reservations, nil
}

// Delete removes reservations by id.
func (r *EquipmentReservationRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM equipment_reservations WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete equipment reservations: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete equipment reservations: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// CountPending returns the number of loan requests awaiting review.
func (r *EquipmentReservationRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM equipment_reservations WHERE status = 'pending'`); err != nil {
		return 0, fmt.Errorf("count pending equipment reservations: %w", err)
	}
	return count, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-facility-api/internal/models"
)

// EquipmentRepository provides persistence for equipment items.
type EquipmentRepository struct {
	db *sqlx.DB
}

// NewEquipmentRepository creates a new equipment repository.
func NewEquipmentRepository(db *sqlx.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// List returns equipment joined with category names, newest first.
func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	const query = `SELECT e.id, e.category_id, e.name, e.description, e.status, c.name AS category_name, e.created_at, e.updated_at
		FROM equipment e
		LEFT JOIN categories c ON e.category_id = c.id
		ORDER BY e.created_at DESC`
	var items []models.Equipment
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

// FindByID loads an equipment item by id.
func (r *EquipmentRepository) FindByID(ctx context.Context, id string) (*models.Equipment, error) {
	const query = `SELECT id, category_id, name, description, status, created_at, updated_at FROM equipment WHERE id = $1`
	var item models.Equipment
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create stores a new equipment item. Items default to available.
func (r *EquipmentRepository) Create(ctx context.Context, item *models.Equipment) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.EquipmentAvailable
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	const query = `INSERT INTO equipment (id, category_id, name, description, status, created_at, updated_at) VALUES (:id, :category_id, :name, :description, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return nil
}

// Update modifies an equipment record.
func (r *EquipmentRepository) Update(ctx context.Context, item *models.Equipment) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE equipment SET category_id = :category_id, name = :name, description = :description, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	return nil
}

// UpdateStatus sets only the availability status of an item. Used by
// reservation transitions for their side effects.
func (r *EquipmentRepository) UpdateStatus(ctx context.Context, id string, status models.EquipmentStatus) error {
	const query = `UPDATE equipment SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update equipment status: %w", err)
	}
	return nil
}

// Delete removes equipment items by id.
func (r *EquipmentRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM equipment WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete equipment: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete equipment: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// Count returns the number of equipment items.
func (r *EquipmentRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM equipment`); err != nil {
		return 0, fmt.Errorf("count equipment: %w", err)
	}
	return count, nil
}

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

// SemesterRepository handles persistence for semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository instantiates a semester repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns all semesters, newest first.
func (r *SemesterRepository) List(ctx context.Context) ([]models.Semester, error) {
	const query = `SELECT id, term, school_year, start_date, end_date, active, created_at, updated_at FROM semesters ORDER BY start_date DESC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}

// FindByID loads a semester by identifier.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	const query = `SELECT id, term, school_year, start_date, end_date, active, created_at, updated_at FROM semesters WHERE id = $1`
	var sem models.Semester
	if err := r.db.GetContext(ctx, &sem, query, id); err != nil {
		return nil, err
	}
	return &sem, nil
}

// FindActive returns the single semester flagged active.
func (r *SemesterRepository) FindActive(ctx context.Context) (*models.Semester, error) {
	const query = `SELECT id, term, school_year, start_date, end_date, active, created_at, updated_at FROM semesters WHERE active = TRUE LIMIT 1`
	var sem models.Semester
	if err := r.db.GetContext(ctx, &sem, query); err != nil {
		return nil, err
	}
	return &sem, nil
}

// Create inserts a new semester. New semesters always start inactive.
func (r *SemesterRepository) Create(ctx context.Context, sem *models.Semester) error {
	if sem.ID == "" {
		sem.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sem.Active = false
	sem.CreatedAt = now
	sem.UpdatedAt = now

	const query = `INSERT INTO semesters (id, term, school_year, start_date, end_date, active, created_at, updated_at) VALUES (:id, :term, :school_year, :start_date, :end_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, sem); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	return nil
}

// Update modifies an existing semester's label and window.
func (r *SemesterRepository) Update(ctx context.Context, sem *models.Semester) error {
	sem.UpdatedAt = time.Now().UTC()
	const query = `UPDATE semesters SET term = :term, school_year = :school_year, start_date = :start_date, end_date = :end_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, sem); err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	return nil
}

// SetActive flags one semester active and deactivates the rest in a single
// transaction so there is no window with zero or multiple active semesters.
func (r *SemesterRepository) SetActive(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin set active tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `UPDATE semesters SET active = FALSE, updated_at = $1 WHERE active = TRUE AND id <> $2`, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("deactivate other semesters: %w", err)
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `UPDATE semesters SET active = TRUE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("activate semester: %w", err)
	}
	if affected, raErr := res.RowsAffected(); raErr == nil && affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit set active tx: %w", err)
	}
	return nil
}

// Delete removes semesters by id.
func (r *SemesterRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM semesters WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build delete semesters: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete semesters: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

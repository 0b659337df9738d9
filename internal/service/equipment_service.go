package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-facility-api/internal/models"
	appErrors "github.com/noah-isme/campus-facility-api/pkg/errors"
)

type equipmentRepository interface {
	List(ctx context.Context) ([]models.Equipment, error)
	FindByID(ctx context.Context, id string) (*models.Equipment, error)
	Create(ctx context.Context, item *models.Equipment) error
	Update(ctx context.Context, item *models.Equipment) error
	Delete(ctx context.Context, ids []string) (int64, error)
}

// EquipmentRequest is the payload for creating or updating an equipment
// item. Status is not settable here; it is driven by loan transitions.
type EquipmentRequest struct {
	CategoryID  *string `json:"category_id"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
}

// EquipmentService manages the equipment catalogue.
type EquipmentService struct {
	repo      equipmentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEquipmentService instantiates EquipmentService.
func NewEquipmentService(repo equipmentRepository, validate *validator.Validate, logger *zap.Logger) *EquipmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EquipmentService{repo: repo, validator: validate, logger: logger}
}

// List returns all equipment with category names.
func (s *EquipmentService) List(ctx context.Context) ([]models.Equipment, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list equipment")
	}
	return items, nil
}

// Get loads a single equipment item.
func (s *EquipmentService) Get(ctx context.Context, id string) (*models.Equipment, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "equipment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load equipment")
	}
	return item, nil
}

// Create inserts a new item. New equipment always starts available.
func (s *EquipmentService) Create(ctx context.Context, req EquipmentRequest) (*models.Equipment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "equipment name is required")
	}
	item := models.Equipment{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Status:      models.EquipmentAvailable,
	}
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create equipment")
	}
	return &item, nil
}

// Update modifies an item's category, name, and description. Status is left
// untouched so outstanding loans stay consistent.
func (s *EquipmentService) Update(ctx context.Context, id string, req EquipmentRequest) (*models.Equipment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "equipment name is required")
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.CategoryID = req.CategoryID
	item.Name = req.Name
	item.Description = req.Description
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update equipment")
	}
	return item, nil
}

// Delete removes equipment by id.
func (s *EquipmentService) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no equipment ids provided")
	}
	deleted, err := s.repo.Delete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete equipment")
	}
	return deleted, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// TypeConfigRepository implements observation.TypeConfigRepository
type TypeConfigRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.TypeConfigMapper
}

// NewTypeConfigRepository creates a new TypeConfigRepository
func NewTypeConfigRepository(db *gorm.DB, logger logger.Interface) observation.TypeConfigRepository {
	return &TypeConfigRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewTypeConfigMapper(),
	}
}

// Create persists a new type config
func (r *TypeConfigRepository) Create(ctx context.Context, t *observation.TypeConfig) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map type config: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return observation.ErrTypeValueTaken
		}
		r.logger.Error("failed to create type config", "value", t.Value(), "error", err)
		return fmt.Errorf("failed to create type config: %w", err)
	}

	t.SetID(model.ID)
	return nil
}

// GetBySID retrieves a type config by short id
func (r *TypeConfigRepository) GetBySID(ctx context.Context, sid string) (*observation.TypeConfig, error) {
	var model models.ObservationTypeConfigModel

	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, observation.ErrTypeConfigNotFound
		}
		r.logger.Error("failed to get type config by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get type config by sid: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// List retrieves type configs ordered by sort_order then value
func (r *TypeConfigRepository) List(ctx context.Context, activeOnly bool) ([]*observation.TypeConfig, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var modelList []*models.ObservationTypeConfigModel
	if err := q.Order("sort_order ASC, value ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list type configs", "error", err)
		return nil, fmt.Errorf("failed to list type configs: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// Update persists changes to an existing type config
func (r *TypeConfigRepository) Update(ctx context.Context, t *observation.TypeConfig) error {
	model, err := r.mapper.ToModel(t)
	if err != nil {
		return fmt.Errorf("failed to map type config: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.ObservationTypeConfigModel{}).
		Where("id = ?", t.ID()).
		Updates(map[string]interface{}{
			"label":      model.Label,
			"is_active":  model.IsActive,
			"sort_order": model.SortOrder,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("failed to update type config", "id", t.ID(), "error", result.Error)
		return fmt.Errorf("failed to update type config: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return observation.ErrTypeConfigNotFound
	}

	return nil
}

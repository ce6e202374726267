package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// CenterRepository implements center.Repository
type CenterRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.CenterMapper
}

// NewCenterRepository creates a new CenterRepository
func NewCenterRepository(db *gorm.DB, logger logger.Interface) center.Repository {
	return &CenterRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewCenterMapper(),
	}
}

// Create persists a new center
func (r *CenterRepository) Create(ctx context.Context, c *center.Center) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map center: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return center.ErrCenterNameTaken
		}
		r.logger.Error("failed to create center", "name", c.Name(), "error", err)
		return fmt.Errorf("failed to create center: %w", err)
	}

	c.SetID(model.ID)
	return nil
}

// GetByID retrieves a center by internal id
func (r *CenterRepository) GetByID(ctx context.Context, id uint) (*center.Center, error) {
	var model models.CenterModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, center.ErrCenterNotFound
		}
		r.logger.Error("failed to get center by id", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get center by id: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a center by short id
func (r *CenterRepository) GetBySID(ctx context.Context, sid string) (*center.Center, error) {
	var model models.CenterModel

	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, center.ErrCenterNotFound
		}
		r.logger.Error("failed to get center by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get center by sid: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetByIDs retrieves the centers for a set of internal ids
func (r *CenterRepository) GetByIDs(ctx context.Context, ids []uint) ([]*center.Center, error) {
	if len(ids) == 0 {
		return []*center.Center{}, nil
	}

	var modelList []*models.CenterModel
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to get centers by ids", "error", err)
		return nil, fmt.Errorf("failed to get centers by ids: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// List retrieves all centers ordered by name
func (r *CenterRepository) List(ctx context.Context) ([]*center.Center, error) {
	var modelList []*models.CenterModel

	err := r.db.WithContext(ctx).Order("name ASC").Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to list centers", "error", err)
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// Update persists changes to an existing center
func (r *CenterRepository) Update(ctx context.Context, c *center.Center) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return fmt.Errorf("failed to map center: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.CenterModel{}).
		Where("id = ?", c.ID()).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"updated_at": model.UpdatedAt,
		})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return center.ErrCenterNameTaken
		}
		r.logger.Error("failed to update center", "id", c.ID(), "error", result.Error)
		return fmt.Errorf("failed to update center: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return center.ErrCenterNotFound
	}

	return nil
}

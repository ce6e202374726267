package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// SubjectRepository implements subject.Repository
type SubjectRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.SubjectMapper
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *gorm.DB, logger logger.Interface) subject.Repository {
	return &SubjectRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewSubjectMapper(),
	}
}

// Create persists a new subject
func (r *SubjectRepository) Create(ctx context.Context, s *subject.Subject) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map subject: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("failed to create subject", "name", s.Name(), "error", err)
		return fmt.Errorf("failed to create subject: %w", err)
	}

	s.SetID(model.ID)
	return nil
}

// GetByID retrieves a subject by internal id
func (r *SubjectRepository) GetByID(ctx context.Context, id uint) (*subject.Subject, error) {
	var model models.SubjectModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subject.ErrSubjectNotFound
		}
		r.logger.Error("failed to get subject by id", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subject by id: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// GetBySID retrieves a subject by short id
func (r *SubjectRepository) GetBySID(ctx context.Context, sid string) (*subject.Subject, error) {
	var model models.SubjectModel

	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subject.ErrSubjectNotFound
		}
		r.logger.Error("failed to get subject by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get subject by sid: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// List retrieves subjects matching the filter, ordered by name
func (r *SubjectRepository) List(ctx context.Context, filter subject.ListFilter) ([]*subject.Subject, error) {
	q := applyScope(r.db.WithContext(ctx), "current_center_id", filter.Scope)

	if filter.Role != nil {
		q = q.Where("role = ?", filter.Role.String())
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if filter.Query != "" {
		q = q.Where("name LIKE ?", "%"+filter.Query+"%")
	}

	var modelList []*models.SubjectModel
	if err := q.Order("name ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list subjects", "error", err)
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// CountActive counts active subjects within the scope
func (r *SubjectRepository) CountActive(ctx context.Context, scope access.Scope) (int64, error) {
	var count int64

	q := applyScope(r.db.WithContext(ctx).Model(&models.SubjectModel{}), "current_center_id", scope)
	if err := q.Where("is_active = ?", true).Count(&count).Error; err != nil {
		r.logger.Error("failed to count active subjects", "error", err)
		return 0, fmt.Errorf("failed to count active subjects: %w", err)
	}

	return count, nil
}

// Update persists changes to an existing subject
func (r *SubjectRepository) Update(ctx context.Context, s *subject.Subject) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map subject: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.SubjectModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"name":              model.Name,
			"role":              model.Role,
			"current_center_id": model.CurrentCenterID,
			"is_active":         model.IsActive,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("failed to update subject", "id", s.ID(), "error", result.Error)
		return fmt.Errorf("failed to update subject: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return subject.ErrSubjectNotFound
	}

	return nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/access"
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// ObservationRepository implements observation.Repository
type ObservationRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.ObservationMapper
}

// NewObservationRepository creates a new ObservationRepository
func NewObservationRepository(db *gorm.DB, logger logger.Interface) observation.Repository {
	return &ObservationRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewObservationMapper(),
	}
}

// Create persists a new observation
func (r *ObservationRepository) Create(ctx context.Context, o *observation.Observation) error {
	model, err := r.mapper.ToModel(o)
	if err != nil {
		return fmt.Errorf("failed to map observation: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("failed to create observation", "subject_id", o.SubjectID(), "error", err)
		return fmt.Errorf("failed to create observation: %w", err)
	}

	o.SetID(model.ID)
	return nil
}

// GetBySID retrieves an observation by short id
func (r *ObservationRepository) GetBySID(ctx context.Context, sid string) (*observation.Observation, error) {
	var model models.ObservationModel

	err := r.db.WithContext(ctx).Where("sid = ?", sid).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, observation.ErrObservationNotFound
		}
		r.logger.Error("failed to get observation by sid", "sid", sid, "error", err)
		return nil, fmt.Errorf("failed to get observation by sid: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// Update persists edits to an existing observation
func (r *ObservationRepository) Update(ctx context.Context, o *observation.Observation) error {
	model, err := r.mapper.ToModel(o)
	if err != nil {
		return fmt.Errorf("failed to map observation: %w", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.ObservationModel{}).
		Where("id = ?", o.ID()).
		Updates(map[string]interface{}{
			"transcript":       model.Transcript,
			"observation_type": model.ObservationType,
			"observed_at":      model.ObservedAt,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Error("failed to update observation", "id", o.ID(), "error", result.Error)
		return fmt.Errorf("failed to update observation: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return observation.ErrObservationNotFound
	}

	return nil
}

// List retrieves observations matching the filter, newest observed first
func (r *ObservationRepository) List(ctx context.Context, filter observation.ListFilter) ([]*observation.Observation, error) {
	q := applyScope(r.db.WithContext(ctx), "center_id", filter.Scope)

	if filter.SubjectID != nil {
		q = q.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.ObservationType != nil {
		q = q.Where("observation_type = ?", *filter.ObservationType)
	}
	if filter.From != nil {
		q = q.Where("observed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("observed_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var modelList []*models.ObservationModel
	if err := q.Order("observed_at DESC, id DESC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list observations", "error", err)
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// ListForSubject retrieves a subject's observations ordered by observed_at
// ascending, optionally from a lower bound. Summary generation depends on
// this ordering.
func (r *ObservationRepository) ListForSubject(ctx context.Context, subjectID uint, from *time.Time) ([]*observation.Observation, error) {
	q := r.db.WithContext(ctx).Where("subject_id = ?", subjectID)
	if from != nil {
		q = q.Where("observed_at >= ?", *from)
	}

	var modelList []*models.ObservationModel
	if err := q.Order("observed_at ASC, id ASC").Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list observations for subject", "subject_id", subjectID, "error", err)
		return nil, fmt.Errorf("failed to list observations for subject: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// Recent retrieves the most recently logged observations within scope
func (r *ObservationRepository) Recent(ctx context.Context, scope access.Scope, limit int) ([]*observation.Observation, error) {
	q := applyScope(r.db.WithContext(ctx), "center_id", scope)

	var modelList []*models.ObservationModel
	if err := q.Order("logged_at DESC, id DESC").Limit(limit).Find(&modelList).Error; err != nil {
		r.logger.Error("failed to list recent observations", "error", err)
		return nil, fmt.Errorf("failed to list recent observations: %w", err)
	}

	return r.mapper.ToEntities(modelList)
}

// Count counts observations within scope, optionally since a logged_at bound
func (r *ObservationRepository) Count(ctx context.Context, scope access.Scope, loggedSince *time.Time) (int64, error) {
	q := applyScope(r.db.WithContext(ctx).Model(&models.ObservationModel{}), "center_id", scope)
	if loggedSince != nil {
		q = q.Where("logged_at >= ?", *loggedSince)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		r.logger.Error("failed to count observations", "error", err)
		return 0, fmt.Errorf("failed to count observations: %w", err)
	}

	return count, nil
}

// CountBySubject returns per-subject observation counts within scope for
// logged_at >= loggedSince, most observed first
func (r *ObservationRepository) CountBySubject(ctx context.Context, scope access.Scope, loggedSince time.Time) ([]observation.SubjectCount, error) {
	q := applyScope(r.db.WithContext(ctx).Model(&models.ObservationModel{}), "center_id", scope)

	var rows []observation.SubjectCount
	err := q.Select("subject_id, COUNT(*) as count").
		Where("logged_at >= ?", loggedSince).
		Group("subject_id").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("failed to count observations by subject", "error", err)
		return nil, fmt.Errorf("failed to count observations by subject: %w", err)
	}

	return rows, nil
}

// LastLoggedAtByUser returns when the user last logged an observation, or
// nil if they never have
func (r *ObservationRepository) LastLoggedAtByUser(ctx context.Context, userID uint) (*time.Time, error) {
	var model models.ObservationModel

	err := r.db.WithContext(ctx).
		Where("logged_by_user_id = ?", userID).
		Order("logged_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("failed to get last logged observation", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get last logged observation: %w", err)
	}

	loggedAt := model.LoggedAt
	return &loggedAt, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/summary"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// SummaryRepository implements summary.Repository
type SummaryRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.SummaryMapper
}

// NewSummaryRepository creates a new SummaryRepository
func NewSummaryRepository(db *gorm.DB, logger logger.Interface) summary.Repository {
	return &SummaryRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewSummaryMapper(),
	}
}

// Create persists a new summary
func (r *SummaryRepository) Create(ctx context.Context, s *summary.ObservationSummary) error {
	model, err := r.mapper.ToModel(s)
	if err != nil {
		return fmt.Errorf("failed to map summary: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		r.logger.Error("failed to create summary", "subject_id", s.SubjectID(), "error", err)
		return fmt.Errorf("failed to create summary: %w", err)
	}

	s.SetID(model.ID)
	return nil
}

// LatestMatching retrieves the newest cached summary that already covers
// the subject's latest observation and starts at or before maxStartDate
func (r *SummaryRepository) LatestMatching(ctx context.Context, subjectID uint, lastObservationID uint, maxStartDate time.Time) (*summary.ObservationSummary, error) {
	var model models.ObservationSummaryModel

	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND last_observation_id = ? AND start_date <= ?", subjectID, lastObservationID, maxStartDate).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, summary.ErrSummaryNotFound
		}
		r.logger.Error("failed to get matching summary", "subject_id", subjectID, "error", err)
		return nil, fmt.Errorf("failed to get matching summary: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

// LatestForSubject retrieves the subject's newest summary regardless of
// validity
func (r *SummaryRepository) LatestForSubject(ctx context.Context, subjectID uint) (*summary.ObservationSummary, error) {
	var model models.ObservationSummaryModel

	err := r.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("created_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, summary.ErrSummaryNotFound
		}
		r.logger.Error("failed to get latest summary", "subject_id", subjectID, "error", err)
		return nil, fmt.Errorf("failed to get latest summary: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

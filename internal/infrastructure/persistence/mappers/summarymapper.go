package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/summary"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

type SummaryMapper interface {
	ToEntity(model *models.ObservationSummaryModel) (*summary.ObservationSummary, error)
	ToModel(entity *summary.ObservationSummary) (*models.ObservationSummaryModel, error)
	ToEntities(models []*models.ObservationSummaryModel) ([]*summary.ObservationSummary, error)
}

type SummaryMapperImpl struct{}

func NewSummaryMapper() SummaryMapper {
	return &SummaryMapperImpl{}
}

func (m *SummaryMapperImpl) ToEntity(model *models.ObservationSummaryModel) (*summary.ObservationSummary, error) {
	if model == nil {
		return nil, nil
	}

	var meta summary.GenerationMeta
	if len(model.GenerationMeta) > 0 {
		if err := json.Unmarshal(model.GenerationMeta, &meta); err != nil {
			return nil, fmt.Errorf("failed to unmarshal generation meta: %w", err)
		}
	}

	return summary.ReconstructObservationSummary(
		model.ID,
		model.SID,
		model.SubjectID,
		model.SummaryText,
		model.StartDate,
		model.EndDate,
		model.ObservationCount,
		model.LastObservationID,
		model.RequestedByUserID,
		meta,
		model.CreatedAt,
	), nil
}

func (m *SummaryMapperImpl) ToModel(entity *summary.ObservationSummary) (*models.ObservationSummaryModel, error) {
	if entity == nil {
		return nil, nil
	}

	metaJSON, err := json.Marshal(entity.Meta())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation meta: %w", err)
	}

	return &models.ObservationSummaryModel{
		ID:                entity.ID(),
		SID:               entity.SID(),
		SubjectID:         entity.SubjectID(),
		SummaryText:       entity.SummaryText(),
		StartDate:         entity.StartDate(),
		EndDate:           entity.EndDate(),
		ObservationCount:  entity.ObservationCount(),
		LastObservationID: entity.LastObservationID(),
		RequestedByUserID: entity.RequestedByUserID(),
		GenerationMeta:    datatypes.JSON(metaJSON),
		CreatedAt:         entity.CreatedAt(),
	}, nil
}

func (m *SummaryMapperImpl) ToEntities(modelList []*models.ObservationSummaryModel) ([]*summary.ObservationSummary, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ObservationSummaryModel) uint { return model.ID })
}

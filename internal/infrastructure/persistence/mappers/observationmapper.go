package mappers

import (
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/observation"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

type ObservationMapper interface {
	ToEntity(model *models.ObservationModel) (*observation.Observation, error)
	ToModel(entity *observation.Observation) (*models.ObservationModel, error)
	ToEntities(models []*models.ObservationModel) ([]*observation.Observation, error)
}

type ObservationMapperImpl struct{}

func NewObservationMapper() ObservationMapper {
	return &ObservationMapperImpl{}
}

func (m *ObservationMapperImpl) ToEntity(model *models.ObservationModel) (*observation.Observation, error) {
	if model == nil {
		return nil, nil
	}

	return observation.ReconstructObservation(
		model.ID,
		model.SID,
		model.SubjectID,
		model.CenterID,
		model.LoggedByUserID,
		model.Transcript,
		model.ObservationType,
		model.ObservedAt,
		model.LoggedAt,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *ObservationMapperImpl) ToModel(entity *observation.Observation) (*models.ObservationModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ObservationModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		SubjectID:       entity.SubjectID(),
		CenterID:        entity.CenterID(),
		LoggedByUserID:  entity.LoggedByUserID(),
		Transcript:      entity.Transcript(),
		ObservationType: entity.ObservationType(),
		ObservedAt:      entity.ObservedAt(),
		LoggedAt:        entity.LoggedAt(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *ObservationMapperImpl) ToEntities(modelList []*models.ObservationModel) ([]*observation.Observation, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ObservationModel) uint { return model.ID })
}

type TypeConfigMapper interface {
	ToEntity(model *models.ObservationTypeConfigModel) (*observation.TypeConfig, error)
	ToModel(entity *observation.TypeConfig) (*models.ObservationTypeConfigModel, error)
	ToEntities(models []*models.ObservationTypeConfigModel) ([]*observation.TypeConfig, error)
}

type TypeConfigMapperImpl struct{}

func NewTypeConfigMapper() TypeConfigMapper {
	return &TypeConfigMapperImpl{}
}

func (m *TypeConfigMapperImpl) ToEntity(model *models.ObservationTypeConfigModel) (*observation.TypeConfig, error) {
	if model == nil {
		return nil, nil
	}

	return observation.ReconstructTypeConfig(
		model.ID,
		model.SID,
		model.Value,
		model.Label,
		model.IsActive,
		model.SortOrder,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *TypeConfigMapperImpl) ToModel(entity *observation.TypeConfig) (*models.ObservationTypeConfigModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.ObservationTypeConfigModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		Value:     entity.Value(),
		Label:     entity.Label(),
		IsActive:  entity.IsActive(),
		SortOrder: entity.SortOrder(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *TypeConfigMapperImpl) ToEntities(modelList []*models.ObservationTypeConfigModel) ([]*observation.TypeConfig, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.ObservationTypeConfigModel) uint { return model.ID })
}

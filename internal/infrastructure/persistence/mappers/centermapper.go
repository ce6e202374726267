package mappers

import (
	"github.com/rahul-raghavan/pep-ops-log/internal/domain/center"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

type CenterMapper interface {
	ToEntity(model *models.CenterModel) (*center.Center, error)
	ToModel(entity *center.Center) (*models.CenterModel, error)
	ToEntities(models []*models.CenterModel) ([]*center.Center, error)
}

type CenterMapperImpl struct{}

func NewCenterMapper() CenterMapper {
	return &CenterMapperImpl{}
}

func (m *CenterMapperImpl) ToEntity(model *models.CenterModel) (*center.Center, error) {
	if model == nil {
		return nil, nil
	}

	return center.ReconstructCenter(
		model.ID,
		model.SID,
		model.Name,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *CenterMapperImpl) ToModel(entity *center.Center) (*models.CenterModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.CenterModel{
		ID:        entity.ID(),
		SID:       entity.SID(),
		Name:      entity.Name(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}, nil
}

func (m *CenterMapperImpl) ToEntities(modelList []*models.CenterModel) ([]*center.Center, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.CenterModel) uint { return model.ID })
}

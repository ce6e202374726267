package mappers

import (
	"fmt"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/subject"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

type SubjectMapper interface {
	ToEntity(model *models.SubjectModel) (*subject.Subject, error)
	ToModel(entity *subject.Subject) (*models.SubjectModel, error)
	ToEntities(models []*models.SubjectModel) ([]*subject.Subject, error)
}

type SubjectMapperImpl struct{}

func NewSubjectMapper() SubjectMapper {
	return &SubjectMapperImpl{}
}

func (m *SubjectMapperImpl) ToEntity(model *models.SubjectModel) (*subject.Subject, error) {
	if model == nil {
		return nil, nil
	}

	role, err := authorization.ParseSubjectRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject role: %w", err)
	}

	return subject.ReconstructSubject(
		model.ID,
		model.SID,
		model.Name,
		role,
		model.CurrentCenterID,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *SubjectMapperImpl) ToModel(entity *subject.Subject) (*models.SubjectModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.SubjectModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		Name:            entity.Name(),
		Role:            entity.Role().String(),
		CurrentCenterID: entity.CurrentCenterID(),
		IsActive:        entity.IsActive(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *SubjectMapperImpl) ToEntities(modelList []*models.SubjectModel) ([]*subject.Subject, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SubjectModel) uint { return model.ID })
}

package mappers

import (
	"fmt"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/authorization"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/mapper"
)

type UserMapper interface {
	ToEntity(model *models.UserModel, centerIDs []uint) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
	ToEntities(models []*models.UserModel, centerIDsByUser map[uint][]uint) ([]*user.User, error)
}

type UserMapperImpl struct{}

func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(model *models.UserModel, centerIDs []uint) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	role, err := authorization.ParseUserRole(model.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user role: %w", err)
	}

	return user.ReconstructUser(
		model.ID,
		model.SID,
		model.Email,
		model.Name,
		role,
		model.IsActive,
		model.LinkedSubjectID,
		centerIDs,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

func (m *UserMapperImpl) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	return &models.UserModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		Email:           entity.Email(),
		Name:            entity.Name(),
		Role:            entity.Role().String(),
		IsActive:        entity.IsActive(),
		LinkedSubjectID: entity.LinkedSubjectID(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

func (m *UserMapperImpl) ToEntities(modelList []*models.UserModel, centerIDsByUser map[uint][]uint) ([]*user.User, error) {
	return mapper.MapSlicePtrWithID(modelList, func(model *models.UserModel) (*user.User, error) {
		return m.ToEntity(model, centerIDsByUser[model.ID])
	}, func(model *models.UserModel) uint { return model.ID })
}

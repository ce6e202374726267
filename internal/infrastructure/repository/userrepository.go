package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/rahul-raghavan/pep-ops-log/internal/domain/user"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/mappers"
	"github.com/rahul-raghavan/pep-ops-log/internal/infrastructure/persistence/models"
	apperrors "github.com/rahul-raghavan/pep-ops-log/internal/shared/errors"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

// UserRepository implements user.Repository. Center assignments are stored
// in a join table and replaced wholesale on update.
type UserRepository struct {
	db     *gorm.DB
	logger logger.Interface
	mapper mappers.UserMapper
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepository{
		db:     db,
		logger: logger,
		mapper: mappers.NewUserMapper(),
	}
}

// Create persists a new user and their center assignments
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		return replaceAssignments(tx, model.ID, u.CenterIDs())
	})
	if err != nil {
		if apperrors.IsDuplicateError(err) {
			return user.ErrEmailTaken
		}
		r.logger.Error("failed to create user", "email", u.Email(), "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.SetID(model.ID)
	return nil
}

// GetByID retrieves a user by internal id, with center assignments
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return r.getOne(ctx, "id = ?", id)
}

// GetBySID retrieves a user by short id, with center assignments
func (r *UserRepository) GetBySID(ctx context.Context, sid string) (*user.User, error) {
	return r.getOne(ctx, "sid = ?", sid)
}

// GetByEmail retrieves a user by lowercased email, with center assignments
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var model models.UserModel

	err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		r.logger.Error("failed to get user", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	centerIDs, err := r.assignedCenterIDs(ctx, model.ID)
	if err != nil {
		return nil, err
	}

	return r.mapper.ToEntity(&model, centerIDs)
}

// List retrieves all users ordered by email, with center assignments
func (r *UserRepository) List(ctx context.Context) ([]*user.User, error) {
	var modelList []*models.UserModel

	err := r.db.WithContext(ctx).Order("email ASC").Find(&modelList).Error
	if err != nil {
		r.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var rows []*models.UserCenterAssignmentModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		r.logger.Error("failed to list center assignments", "error", err)
		return nil, fmt.Errorf("failed to list center assignments: %w", err)
	}

	byUser := make(map[uint][]uint, len(modelList))
	for _, row := range rows {
		byUser[row.UserID] = append(byUser[row.UserID], row.CenterID)
	}

	return r.mapper.ToEntities(modelList, byUser)
}

// Update persists user changes and replaces center assignments
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	model, err := r.mapper.ToModel(u)
	if err != nil {
		return fmt.Errorf("failed to map user: %w", err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.UserModel{}).
			Where("id = ?", u.ID()).
			Updates(map[string]interface{}{
				"email":             model.Email,
				"name":              model.Name,
				"role":              model.Role,
				"is_active":         model.IsActive,
				"linked_subject_id": model.LinkedSubjectID,
				"updated_at":        model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return user.ErrUserNotFound
		}
		return replaceAssignments(tx, u.ID(), u.CenterIDs())
	})
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return err
		}
		if apperrors.IsDuplicateError(err) {
			return user.ErrEmailTaken
		}
		r.logger.Error("failed to update user", "id", u.ID(), "error", err)
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *UserRepository) assignedCenterIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.UserCenterAssignmentModel{}).
		Where("user_id = ?", userID).
		Order("center_id ASC").
		Pluck("center_id", &ids).Error
	if err != nil {
		r.logger.Error("failed to get center assignments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get center assignments: %w", err)
	}
	return ids, nil
}

func replaceAssignments(tx *gorm.DB, userID uint, centerIDs []uint) error {
	if err := tx.Where("user_id = ?", userID).
		Delete(&models.UserCenterAssignmentModel{}).Error; err != nil {
		return err
	}
	if len(centerIDs) == 0 {
		return nil
	}

	rows := make([]*models.UserCenterAssignmentModel, 0, len(centerIDs))
	for _, centerID := range centerIDs {
		rows = append(rows, &models.UserCenterAssignmentModel{
			UserID:   userID,
			CenterID: centerID,
		})
	}
	return tx.Create(rows).Error
}

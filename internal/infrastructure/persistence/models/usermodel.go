package models

import (
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
)

type UserModel struct {
	ID              uint    `gorm:"primaryKey"`
	SID             string  `gorm:"column:sid;size:32;not null;uniqueIndex"`
	Email           string  `gorm:"size:255;not null;uniqueIndex"`
	Name            *string `gorm:"size:255"`
	Role            string  `gorm:"size:20;not null;default:'manager'"`
	IsActive        bool    `gorm:"not null;default:true"`
	LinkedSubjectID *uint   `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}

// UserCenterAssignmentModel is the join row scoping a manager to a center.
type UserCenterAssignmentModel struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_user_center"`
	CenterID  uint `gorm:"not null;uniqueIndex:idx_user_center;index"`
	CreatedAt time.Time
}

func (UserCenterAssignmentModel) TableName() string {
	return constants.TableUserCenterAssignments
}

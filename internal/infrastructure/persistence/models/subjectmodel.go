package models

import (
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
)

type SubjectModel struct {
	ID              uint   `gorm:"primaryKey"`
	SID             string `gorm:"column:sid;size:32;not null;uniqueIndex"`
	Name            string `gorm:"size:255;not null"`
	Role            string `gorm:"size:30;not null"`
	CurrentCenterID uint   `gorm:"not null;index"`
	IsActive        bool   `gorm:"not null;default:true"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (SubjectModel) TableName() string {
	return constants.TableSubjects
}

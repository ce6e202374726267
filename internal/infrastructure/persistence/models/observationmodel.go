package models

import (
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
)

type ObservationModel struct {
	ID              uint      `gorm:"primaryKey"`
	SID             string    `gorm:"column:sid;size:32;not null;uniqueIndex"`
	SubjectID       uint      `gorm:"not null;index:idx_subject_observed"`
	CenterID        uint      `gorm:"not null;index"`
	LoggedByUserID  uint      `gorm:"not null;index"`
	Transcript      string    `gorm:"type:longtext;not null"`
	ObservationType *string   `gorm:"size:50;index"`
	ObservedAt      time.Time `gorm:"not null;index:idx_subject_observed"`
	LoggedAt        time.Time `gorm:"not null;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (ObservationModel) TableName() string {
	return constants.TableObservations
}

type ObservationTypeConfigModel struct {
	ID        uint   `gorm:"primaryKey"`
	SID       string `gorm:"column:sid;size:32;not null;uniqueIndex"`
	Value     string `gorm:"size:50;not null;uniqueIndex"`
	Label     string `gorm:"size:100;not null"`
	IsActive  bool   `gorm:"not null;default:true"`
	SortOrder int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ObservationTypeConfigModel) TableName() string {
	return constants.TableObservationTypes
}

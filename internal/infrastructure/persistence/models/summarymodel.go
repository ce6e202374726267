package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
)

type ObservationSummaryModel struct {
	ID                uint      `gorm:"primaryKey"`
	SID               string    `gorm:"column:sid;size:32;not null;uniqueIndex"`
	SubjectID         uint      `gorm:"not null;index:idx_subject_created"`
	SummaryText       string    `gorm:"type:longtext;not null"`
	StartDate         time.Time `gorm:"not null"`
	EndDate           time.Time `gorm:"not null"`
	ObservationCount  int       `gorm:"not null"`
	LastObservationID uint      `gorm:"not null;index"`
	RequestedByUserID uint      `gorm:"not null"`
	GenerationMeta    datatypes.JSON
	CreatedAt         time.Time `gorm:"index:idx_subject_created"`
}

func (ObservationSummaryModel) TableName() string {
	return constants.TableObservationSummaries
}

package models

import (
	"time"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/constants"
)

type CenterModel struct {
	ID        uint   `gorm:"primaryKey"`
	SID       string `gorm:"column:sid;size:32;not null;uniqueIndex"`
	Name      string `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CenterModel) TableName() string {
	return constants.TableCenters
}

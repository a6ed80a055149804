package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Diagnosis stores one quiz submission's classification result.
// Rows are created once per submission and never mutated afterward.
// Scores holds the normalized 0-100 axis values as JSONB.
type Diagnosis struct {
	gorm.Model
	Type              string         `gorm:"not null;index"`
	Scores            datatypes.JSON `gorm:"type:jsonb"`
	Answers           datatypes.JSON `gorm:"type:jsonb"`
	LinkCode          string         `gorm:"uniqueIndex;not null"`
	LinkCodeExpiresAt time.Time      `gorm:"not null"`
}

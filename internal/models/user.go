package models

import (
	"time"

	"gorm.io/gorm"
)

// User lifecycle status constants
const (
	UserStatusPending    = "pending"
	UserStatusLinked     = "linked"
	UserStatusUnfollowed = "unfollowed"
)

// User represents a messaging-channel recipient and their drip progress.
// StepDay is monotonically non-decreasing and advances by exactly 1 per
// successful step delivery; a recipient with StepDay >= 10 graduates into
// the weekly digest segment.
type User struct {
	gorm.Model
	LineUserID  string `gorm:"uniqueIndex;not null"`
	Status      string `gorm:"not null;default:'pending';index"`
	StepDay     int    `gorm:"not null;default:0"`
	LastStepAt  *time.Time
	DiagnosisID *uint      `gorm:"index"`
	Diagnosis   *Diagnosis `gorm:"constraint:OnDelete:SET NULL;"`

	// Associations
	DeliveryLogs []DeliveryLog `gorm:"constraint:OnDelete:CASCADE;"`
}

package models

import "gorm.io/gorm"

// Delivery campaign kinds
const (
	DeliveryKindStep   = "step"
	DeliveryKindDigest = "digest"
)

// Delivery outcome statuses
const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// DeliveryLog is an append-only audit record of one delivery attempt.
// One row per attempt, success or failure, never updated in place.
// Day is nil for digest deliveries.
type DeliveryLog struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index"`
	Kind         string `gorm:"not null;index"`
	Day          *int
	Content      string `gorm:"type:text"`
	Status       string `gorm:"not null"`
	ErrorMessage string `gorm:"column:error_message;type:text"`
}

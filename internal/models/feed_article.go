package models

import (
	"time"

	"gorm.io/gorm"
)

// FeedArticle persists a selected digest article, keyed by URL for dedup.
// A refetch of a known URL only bumps FetchedAt (idempotent upsert).
type FeedArticle struct {
	gorm.Model
	URL         string    `gorm:"uniqueIndex;not null"`
	Title       string    `gorm:"not null;default:''"`
	Content     string    `gorm:"type:text"`
	Source      string    `gorm:"not null;default:''"`
	Category    string    `gorm:"not null;default:'';index"`
	PublishedAt time.Time `gorm:"not null"`
	FetchedAt   time.Time `gorm:"not null"`
}

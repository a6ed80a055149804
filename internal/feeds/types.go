// Package feeds fetches, normalizes, filters, and selects external news
// items for the weekly digest.
package feeds

import "time"

// Item is one normalized feed entry. Link is the dedup key.
type Item struct {
	Title       string
	Link        string
	Content     string
	PublishedAt time.Time
	Source      string
	Category    string
}

// Default aggregation bounds.
const (
	DefaultWindowHours = 168
	fetchTimeout       = 10 * time.Second
	maxRedirects       = 3
)

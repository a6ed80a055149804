package delivery

import (
	"context"
	"time"

	"github.com/okanehq/moneta/internal/feeds"
	"github.com/okanehq/moneta/internal/models"
)

// Store is the persistence surface the orchestrator needs. The production
// implementation is GORM-backed (internal/database); tests inject fakes.
type Store interface {
	// FindStepRecipients returns linked users with drip-day in [1,10] that
	// have not yet received today's step (LastStepAt nil or before today).
	FindStepRecipients(ctx context.Context, today time.Time) ([]models.User, error)

	// FindDigestRecipients returns linked users that graduated the drip
	// (drip-day >= 10), optionally restricted to the given user IDs.
	FindDigestRecipients(ctx context.Context, lineUserIDs []string) ([]models.User, error)

	// AppendDeliveryLog appends one attempt record. Never updates in place.
	AppendDeliveryLog(ctx context.Context, log *models.DeliveryLog) error

	// AdvanceStepDay increments the user's drip-day by exactly 1 and stamps
	// LastStepAt, conditional on the row still being at fromDay with no
	// delivery today. Guards against double-advancement under overlapping
	// runs.
	AdvanceStepDay(ctx context.Context, userID uint, fromDay int, now time.Time) error

	// UpsertFeedArticle persists a selected item keyed by link; a refetch
	// only updates the fetched timestamp.
	UpsertFeedArticle(ctx context.Context, item feeds.Item, fetchedAt time.Time) error
}

// Sender pushes one rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, lineUserID string, text string) error
}

// ProfileResolver resolves a recipient's display name. Implementations
// return "" when the profile is unavailable; the orchestrator falls back
// to a placeholder.
type ProfileResolver interface {
	ResolveDisplayName(ctx context.Context, lineUserID string) string
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okanehq/moneta/internal/feeds"
	"github.com/okanehq/moneta/internal/models"
)

// ErrLinkCodeNotFound is returned when a link code does not match an
// unexpired diagnosis.
var ErrLinkCodeNotFound = errors.New("link code not found or expired")

// Store is the GORM-backed implementation of the delivery persistence
// surface, plus the recipient-lifecycle operations the webhook needs.
type Store struct {
	db *gorm.DB
}

// NewStore wraps a GORM connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindStepRecipients returns linked users with drip-day 1..10 that have
// not received today's step yet.
func (s *Store) FindStepRecipients(ctx context.Context, today time.Time) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Diagnosis").
		Where("status = ?", models.UserStatusLinked).
		Where("step_day BETWEEN 1 AND 10").
		Where("last_step_at IS NULL OR last_step_at < ?", today).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query step recipients: %w", err)
	}
	return users, nil
}

// FindDigestRecipients returns linked users that graduated the drip,
// optionally restricted to specific channel user IDs.
func (s *Store) FindDigestRecipients(ctx context.Context, lineUserIDs []string) ([]models.User, error) {
	query := s.db.WithContext(ctx).
		Preload("Diagnosis").
		Where("status = ?", models.UserStatusLinked).
		Where("step_day >= ?", 10)
	if len(lineUserIDs) > 0 {
		query = query.Where("line_user_id IN ?", lineUserIDs)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to query digest recipients: %w", err)
	}
	return users, nil
}

// AppendDeliveryLog appends one attempt record.
func (s *Store) AppendDeliveryLog(ctx context.Context, log *models.DeliveryLog) error {
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to append delivery log: %w", err)
	}
	return nil
}

// AdvanceStepDay advances the drip-day by exactly 1 and stamps the
// delivery time, conditional on the row still being at fromDay with no
// delivery today. A lost condition (concurrent run already advanced the
// row) is reported as an error so the caller can log it; the recipient is
// not double-advanced.
func (s *Store) AdvanceStepDay(ctx context.Context, userID uint, fromDay int, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND step_day = ?", userID, fromDay).
		Where("last_step_at IS NULL OR last_step_at < ?", today).
		Updates(map[string]interface{}{
			"step_day":     fromDay + 1,
			"last_step_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to advance step day: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("step day not advanced for user %d: row changed concurrently", userID)
	}
	return nil
}

// UpsertFeedArticle persists a selected article keyed by URL. A conflict
// only bumps fetched_at, never duplicating the row.
func (s *Store) UpsertFeedArticle(ctx context.Context, item feeds.Item, fetchedAt time.Time) error {
	article := models.FeedArticle{
		URL:         item.Link,
		Title:       item.Title,
		Content:     item.Content,
		Source:      item.Source,
		Category:    item.Category,
		PublishedAt: item.PublishedAt,
		FetchedAt:   fetchedAt,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "url"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"fetched_at": fetchedAt}),
		}).
		Create(&article).Error
	if err != nil {
		return fmt.Errorf("failed to upsert feed article: %w", err)
	}
	return nil
}

// UpsertPendingUser registers a new follower (or re-follower) in pending
// state, preserving drip progress if the row already exists.
func (s *Store) UpsertPendingUser(ctx context.Context, lineUserID string) error {
	var user models.User
	err := s.db.WithContext(ctx).Where("line_user_id = ?", lineUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{LineUserID: lineUserID, Status: models.UserStatusPending}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	// Re-follow after an unfollow: linked users keep their link.
	if user.Status == models.UserStatusUnfollowed {
		status := models.UserStatusPending
		if user.DiagnosisID != nil {
			status = models.UserStatusLinked
		}
		if err := s.db.WithContext(ctx).Model(&user).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update user status: %w", err)
		}
	}
	return nil
}

// MarkUnfollowed flags a recipient as unfollowed so batches skip them.
func (s *Store) MarkUnfollowed(ctx context.Context, lineUserID string) error {
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("line_user_id = ?", lineUserID).
		Update("status", models.UserStatusUnfollowed).Error
	if err != nil {
		return fmt.Errorf("failed to mark user unfollowed: %w", err)
	}
	return nil
}

// ClaimLinkCode links a channel user to the diagnosis behind an unexpired
// link code, marks them linked, and starts the drip at day 1. Returns the
// diagnosis for the confirmation reply.
func (s *Store) ClaimLinkCode(ctx context.Context, lineUserID, code string) (*models.Diagnosis, error) {
	var diagnosis models.Diagnosis
	err := s.db.WithContext(ctx).
		Where("link_code = ? AND link_code_expires_at > ?", code, time.Now()).
		First(&diagnosis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLinkCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up link code: %w", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Where("line_user_id = ?", lineUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			LineUserID:  lineUserID,
			Status:      models.UserStatusLinked,
			StepDay:     1,
			DiagnosisID: &diagnosis.ID,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create linked user: %w", err)
		}
		return &diagnosis, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	updates := map[string]interface{}{
		"status":       models.UserStatusLinked,
		"diagnosis_id": diagnosis.ID,
	}
	// Only a fresh link starts the drip; re-linking keeps progress.
	if user.StepDay == 0 {
		updates["step_day"] = 1
	}
	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to link user: %w", err)
	}
	return &diagnosis, nil
}

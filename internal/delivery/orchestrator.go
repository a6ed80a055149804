// Package delivery orchestrates the step-drip and weekly-digest batch
// runs: eligibility, rendering, sending, and delivery bookkeeping.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/okanehq/moneta/internal/content"
	"github.com/okanehq/moneta/internal/events"
	"github.com/okanehq/moneta/internal/feeds"
	"github.com/okanehq/moneta/internal/models"
	"github.com/okanehq/moneta/internal/summarize"
)

// Graduation boundary: recipients at or past this drip-day receive the
// weekly digest. Day 10 itself is still step-eligible, matching the
// original campaign (the day-10 step send advances them out of the range).
const graduationDay = 10

// Fallback when the profile lookup fails.
const placeholderName = "Friend"

// DefaultMaxArticles is the digest article count when the caller does not
// override it.
const DefaultMaxArticles = 5

// DigestOptions controls one digest run.
type DigestOptions struct {
	DryRun       bool
	RecipientIDs []string
	MaxArticles  int
}

// StepOptions controls one step-drip run.
type StepOptions struct {
	DryRun bool
}

// BatchResult is the contract returned to the caller/scheduler for every
// batch run, regardless of transport.
type BatchResult struct {
	Processed int          `json:"processed"`
	Sent      int          `json:"sent"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors"`
}

// BatchError pairs a recipient with their delivery failure.
type BatchError struct {
	RecipientID string `json:"recipientId"`
	Error       string `json:"error"`
}

// Orchestrator wires the injected capability handles together. All
// external collaborators come in through constructor-supplied interfaces
// so tests can substitute deterministic fakes.
type Orchestrator struct {
	store      Store
	sender     Sender
	resolver   ProfileResolver
	fetcher    feeds.Fetcher
	summarizer summarize.Summarizer
	content    *content.Store
	publisher  *events.Publisher // optional; nil disables event publishing
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator. publisher may be nil.
func NewOrchestrator(
	store Store,
	sender Sender,
	resolver ProfileResolver,
	fetcher feeds.Fetcher,
	summarizer summarize.Summarizer,
	contentStore *content.Store,
	publisher *events.Publisher,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:      store,
		sender:     sender,
		resolver:   resolver,
		fetcher:    fetcher,
		summarizer: summarizer,
		content:    contentStore,
		publisher:  publisher,
		logger:     logger,
	}
}

// RunStepBatch delivers the day-specific drip message to every eligible
// recipient. Per-recipient failures are isolated into the result's error
// list; only store-level failures are fatal.
func (o *Orchestrator) RunStepBatch(ctx context.Context, opts StepOptions) (*BatchResult, error) {
	runID := uuid.New().String()
	o.logger.Info("Starting step batch", "run_id", runID, "dry_run", opts.DryRun)

	today := startOfDay(time.Now())
	users, err := o.store.FindStepRecipients(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to find step recipients: %w", err)
	}

	o.logger.Info("Found step recipients", "run_id", runID, "count", len(users))

	result := &BatchResult{Processed: len(users), Errors: []BatchError{}}

	for i := range users {
		user := &users[i]
		archetype := o.archetypeFor(user)

		msg := o.content.Steps.ForDay(archetype, user.StepDay)
		if msg == nil {
			o.logger.Warn("No step message configured, skipping",
				"run_id", runID, "archetype", archetype, "day", user.StepDay)
			continue
		}

		displayName := o.displayName(ctx, user.LineUserID)
		text := summarize.PersonalizeStep(msg.Content, displayName)

		if opts.DryRun {
			result.Sent++
			continue
		}

		day := user.StepDay
		if err := o.sender.Send(ctx, user.LineUserID, text); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BatchError{RecipientID: user.LineUserID, Error: err.Error()})
			o.recordOutcome(ctx, runID, user.ID, models.DeliveryKindStep, &day, msg.Subject, err)
			o.logger.Error("Step delivery failed",
				"run_id", runID, "user_id", user.ID, "day", day, "error", err.Error())
			continue
		}

		o.recordOutcome(ctx, runID, user.ID, models.DeliveryKindStep, &day, msg.Subject, nil)

		if err := o.store.AdvanceStepDay(ctx, user.ID, user.StepDay, time.Now()); err != nil {
			// The message went out; log loudly but keep the result a "sent".
			// The conditional update means a lost advance retries this day
			// next run rather than skipping one.
			o.logger.Error("Failed to advance drip day",
				"run_id", runID, "user_id", user.ID, "day", day, "error", err.Error())
		}

		result.Sent++
		o.logger.Info("Sent step message",
			"run_id", runID, "user_id", user.ID, "archetype", archetype, "day", day)
	}

	o.logger.Info("Step batch completed",
		"run_id", runID, "processed", result.Processed, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// RunDigest curates this week's articles and delivers one archetype-toned
// digest per graduated recipient. Re-invoking with dry-run never mutates
// recipient state.
func (o *Orchestrator) RunDigest(ctx context.Context, opts DigestOptions) (*BatchResult, error) {
	runID := uuid.New().String()
	maxArticles := opts.MaxArticles
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}

	o.logger.Info("Starting digest run",
		"run_id", runID, "dry_run", opts.DryRun, "max_articles", maxArticles)

	users, err := o.store.FindDigestRecipients(ctx, opts.RecipientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find digest recipients: %w", err)
	}

	if len(users) == 0 {
		o.logger.Info("No digest recipients, skipping fetch", "run_id", runID)
		return &BatchResult{Errors: []BatchError{}}, nil
	}

	pool := feeds.FetchAll(ctx, o.fetcher, o.content.Feeds.Sources)
	recent := feeds.FilterRecent(pool, feeds.DefaultWindowHours, time.Now())
	top := feeds.SelectTop(recent, maxArticles, true)

	o.logger.Info("Curated digest articles",
		"run_id", runID, "fetched", len(pool), "recent", len(recent), "selected", len(top))

	// Segment recipients by archetype; each segment gets its own toned
	// summaries of the same selection.
	segments := make(map[string][]*models.User)
	for i := range users {
		archetype := o.archetypeFor(&users[i])
		segments[archetype] = append(segments[archetype], &users[i])
	}

	result := &BatchResult{Processed: len(users), Errors: []BatchError{}}

	for archetype, recipients := range segments {
		tone := o.toneFor(archetype)
		articles := summarize.Batch(ctx, o.summarizer, top, tone)

		o.logger.Info("Processing digest segment",
			"run_id", runID, "archetype", archetype,
			"recipients", len(recipients), "articles", len(articles))

		for _, user := range recipients {
			displayName := o.displayName(ctx, user.LineUserID)
			text := summarize.FormatDigest(displayName, articles)

			if opts.DryRun {
				result.Sent++
				continue
			}

			if err := o.sender.Send(ctx, user.LineUserID, text); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, BatchError{RecipientID: user.LineUserID, Error: err.Error()})
				o.recordOutcome(ctx, runID, user.ID, models.DeliveryKindDigest, nil, "", err)
				o.logger.Error("Digest delivery failed",
					"run_id", runID, "user_id", user.ID, "error", err.Error())
				continue
			}

			o.recordOutcome(ctx, runID, user.ID, models.DeliveryKindDigest, nil, "", nil)
			result.Sent++
		}
	}

	// Persist the selection for future dedup. Upserts are idempotent by
	// link, so a rerun only bumps fetched_at.
	if !opts.DryRun {
		now := time.Now()
		for _, item := range top {
			if err := o.store.UpsertFeedArticle(ctx, item, now); err != nil {
				o.logger.Warn("Failed to upsert feed article",
					"run_id", runID, "link", item.Link, "error", err.Error())
			}
		}
	}

	o.logger.Info("Digest run completed",
		"run_id", runID, "processed", result.Processed, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

// recordOutcome appends the delivery log row and mirrors it to the event
// stream when a publisher is configured. A delivery is recorded if and
// only if the send call returned, success or failure.
func (o *Orchestrator) recordOutcome(ctx context.Context, runID string, userID uint, kind string, day *int, subject string, sendErr error) {
	log := &models.DeliveryLog{
		UserID:  userID,
		Kind:    kind,
		Day:     day,
		Content: subject,
		Status:  models.DeliveryStatusSent,
	}
	if sendErr != nil {
		log.Status = models.DeliveryStatusFailed
		log.ErrorMessage = sendErr.Error()
	}

	if err := o.store.AppendDeliveryLog(ctx, log); err != nil {
		o.logger.Error("Failed to append delivery log",
			"run_id", runID, "user_id", userID, "kind", kind, "error", err.Error())
	}

	if o.publisher == nil {
		return
	}
	evt := events.DeliveryEvent{
		RunID:      runID,
		UserID:     userID,
		Kind:       kind,
		Status:     log.Status,
		Day:        day,
		Error:      log.ErrorMessage,
		OccurredAt: time.Now().Unix(),
	}
	if _, err := o.publisher.PublishDelivery(ctx, evt); err != nil {
		o.logger.Warn("Failed to publish delivery event",
			"run_id", runID, "user_id", userID, "error", err.Error())
	}
}

func (o *Orchestrator) archetypeFor(user *models.User) string {
	if user.Diagnosis != nil && user.Diagnosis.Type != "" {
		return user.Diagnosis.Type
	}
	return "balanced"
}

func (o *Orchestrator) toneFor(archetype string) string {
	if info := o.content.Diagnosis.Type(archetype); info != nil && info.Tone != "" {
		return info.Tone
	}
	return "a balanced investor weighing risk against return"
}

func (o *Orchestrator) displayName(ctx context.Context, lineUserID string) string {
	if name := o.resolver.ResolveDisplayName(ctx, lineUserID); name != "" {
		return name
	}
	return placeholderName
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

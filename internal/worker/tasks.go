package worker

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	TaskRunStep   = "step:run"
	TaskRunDigest = "digest:run"
)

// StepPayload is the step:run task payload.
type StepPayload struct {
	DryRun bool `json:"dry_run"`
}

// DigestPayload is the digest:run task payload.
type DigestPayload struct {
	DryRun       bool     `json:"dry_run"`
	RecipientIDs []string `json:"recipient_ids,omitempty"`
	MaxArticles  int      `json:"max_articles,omitempty"`
}

// Package-level Asynq client (singleton)
var client *asynq.Client

// InitClient initializes the global Asynq client for task enqueueing.
// Must be called before any EnqueueX functions.
func InitClient(redisURL string) error {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return err
	}

	client = asynq.NewClient(opt)
	return nil
}

// CloseClient closes the Asynq client connection gracefully.
func CloseClient() error {
	if client != nil {
		return client.Close()
	}
	return nil
}

// EnqueueRunStep enqueues a step-drip batch run. Unique over 23 hours so a
// duplicate trigger within the same campaign day collapses to one task.
func EnqueueRunStep(p StepPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskRunStep,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(23*time.Hour),
	)

	_, err = client.Enqueue(task)
	return err
}

// EnqueueRunDigest enqueues a digest batch run.
func EnqueueRunDigest(p DigestPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}

	task := asynq.NewTask(
		TaskRunDigest,
		payload,
		asynq.MaxRetry(3),
		asynq.Timeout(15*time.Minute),
		asynq.Retention(24*time.Hour),
	)

	_, err = client.Enqueue(task)
	return err
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/okanehq/moneta/internal/config"
	"github.com/okanehq/moneta/internal/delivery"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, orch *delivery.Orchestrator) error {
	srv, mux, err := newServer(cfg, orch)
	if err != nil {
		return err
	}

	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop
// function. Use this for embedded mode so the caller can coordinate
// shutdown.
func Start(cfg *config.Config, orch *delivery.Orchestrator) (stop func(), err error) {
	srv, mux, err := newServer(cfg, orch)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, orch *delivery.Orchestrator) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	// Dedicated Redis client for the per-campaign run locks, separate from
	// the Asynq internal connection.
	lock, err := newRunLock(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create run lock client: %w", err)
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRunStep, handleRunStep(logger, orch, lock))
	mux.HandleFunc(TaskRunDigest, handleRunDigest(logger, orch, lock))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleRunStep processes step:run tasks by delegating to the delivery
// orchestrator under the step run lock.
func handleRunStep(logger *slog.Logger, orch *delivery.Orchestrator, lock *runLock) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload StepPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		acquired, err := lock.acquire(ctx, "step")
		if err != nil {
			return err
		}
		if !acquired {
			logger.Warn("Step batch already running, skipping duplicate trigger")
			return nil
		}
		defer lock.release(ctx, "step")

		result, err := orch.RunStepBatch(ctx, delivery.StepOptions{DryRun: payload.DryRun})
		if err != nil {
			// Store-level failure - retryable
			return fmt.Errorf("step batch failed: %w", err)
		}

		logger.Info("step:run task completed",
			"processed", result.Processed,
			"sent", result.Sent,
			"failed", result.Failed,
		)
		return nil
	}
}

// handleRunDigest processes digest:run tasks under the digest run lock.
func handleRunDigest(logger *slog.Logger, orch *delivery.Orchestrator, lock *runLock) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload DigestPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		acquired, err := lock.acquire(ctx, "digest")
		if err != nil {
			return err
		}
		if !acquired {
			logger.Warn("Digest run already in progress, skipping duplicate trigger")
			return nil
		}
		defer lock.release(ctx, "digest")

		result, err := orch.RunDigest(ctx, delivery.DigestOptions{
			DryRun:       payload.DryRun,
			RecipientIDs: payload.RecipientIDs,
			MaxArticles:  payload.MaxArticles,
		})
		if err != nil {
			return fmt.Errorf("digest run failed: %w", err)
		}

		logger.Info("digest:run task completed",
			"processed", result.Processed,
			"sent", result.Sent,
			"failed", result.Failed,
		)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}

package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/okanehq/moneta/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler for the periodic
// step and digest batches. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.ScheduleTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.ScheduleTimezone, "error", err)
		location = time.UTC
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	stepTask := asynq.NewTask(
		TaskRunStep,
		[]byte(`{"dry_run":false}`),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(23*time.Hour), // one step batch per campaign day
	)

	stepEntry, err := scheduler.Register(cfg.StepSchedule, stepTask)
	if err != nil {
		return nil, fmt.Errorf("failed to register step schedule: %w", err)
	}

	digestTask := asynq.NewTask(
		TaskRunDigest,
		[]byte(`{"dry_run":false}`),
		asynq.MaxRetry(3),
		asynq.Timeout(15*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(24*time.Hour),
	)

	digestEntry, err := scheduler.Register(cfg.DigestSchedule, digestTask)
	if err != nil {
		return nil, fmt.Errorf("failed to register digest schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"step_schedule", cfg.StepSchedule,
		"digest_schedule", cfg.DigestSchedule,
		"timezone", cfg.ScheduleTimezone,
		"step_entry_id", stepEntry,
		"digest_entry_id", digestEntry,
	)

	return func() { scheduler.Shutdown() }, nil
}

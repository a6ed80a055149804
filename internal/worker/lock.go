package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Batch runs assume external serialization (one scheduled invocation at a
// time). The run lock enforces that best-effort: an overlapping trigger
// for the same campaign kind skips instead of double-sending.
const lockTTL = 15 * time.Minute

// runLock is a best-effort per-campaign mutex backed by redis SET NX.
type runLock struct {
	rdb *redis.Client
}

func newRunLock(redisURL string) (*runLock, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &runLock{rdb: redis.NewClient(opts)}, nil
}

// acquire takes the lock for kind. Returns false when another run holds it.
func (l *runLock) acquire(ctx context.Context, kind string) (bool, error) {
	ok, err := l.rdb.SetNX(ctx, "runlock:"+kind, time.Now().Unix(), lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return ok, nil
}

// release frees the lock for kind.
func (l *runLock) release(ctx context.Context, kind string) {
	l.rdb.Del(ctx, "runlock:"+kind)
}

// Package events publishes delivery outcomes to a Redis Stream for
// external analytics consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stream name and schema version constants
const (
	StreamDeliveryEvents = "delivery:events"
	SchemaVersionV1      = "v1"
)

// DeliveryEvent records the outcome of one delivery attempt.
type DeliveryEvent struct {
	RunID      string `json:"run_id"`
	UserID     uint   `json:"user_id"`
	Kind       string `json:"kind"`   // step/digest
	Status     string `json:"status"` // sent/failed
	Day        *int   `json:"day,omitempty"`
	Error      string `json:"error,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// Publisher publishes delivery events to Redis Streams.
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a Publisher instance.
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Publisher{rdb: redis.NewClient(opts)}, nil
}

// PublishDelivery appends one event to the stream.
func (p *Publisher) PublishDelivery(ctx context.Context, evt DeliveryEvent) (string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	result := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamDeliveryEvents,
		MaxLen: 10000,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   time.Now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	})

	if result.Err() != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", result.Err())
	}

	return result.Val(), nil
}

// Close closes the Redis client connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

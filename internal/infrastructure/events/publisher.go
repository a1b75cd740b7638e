// Package events publishes fire-and-forget notifications for connected
// clients over Redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Envelope is the wire shape of a published event
type Envelope struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// RedisPublisher publishes events on a single pub/sub channel. Delivery is
// best-effort: failures are logged and never retried.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher creates a new Redis-backed event publisher
func NewRedisPublisher(rdb *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel, logger: logger}
}

// Publish sends one event. The returned error is informational; callers
// treat publishing as fire-and-forget.
func (p *RedisPublisher) Publish(ctx context.Context, event string, payload interface{}) error {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event %q: %w", event, err)
	}

	if err := p.rdb.Publish(ctx, p.channel, data).Err(); err != nil {
		p.logger.Warn("event publish failed",
			zap.String("event", event),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Package buffer implements the per-room transcript buffer on Redis lists.
package buffer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teamflowdev/call-coordinator/internal/domain/entities"
)

// RedisBuffer appends transcript fragments to a per-room Redis list and
// drains them with a rename-based atomic claim.
type RedisBuffer struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewRedisBuffer creates a new Redis-backed transcript buffer
func NewRedisBuffer(rdb *redis.Client, logger *zap.Logger) *RedisBuffer {
	return &RedisBuffer{rdb: rdb, logger: logger}
}

func bufferKey(roomID string) string {
	return fmt.Sprintf("meeting:%s:buffer", roomID)
}

func processingKey(roomID string) string {
	return fmt.Sprintf("meeting:%s:processing", roomID)
}

// Push appends a fragment to the room's buffer and returns the resulting
// list length.
func (b *RedisBuffer) Push(ctx context.Context, roomID string, fragment entities.TranscriptFragment) (int64, error) {
	data, err := json.Marshal(fragment)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal fragment: %w", err)
	}

	key := bufferKey(roomID)
	if err := b.rdb.RPush(ctx, key, data).Err(); err != nil {
		return 0, fmt.Errorf("failed to push fragment: %w", err)
	}

	length, err := b.rdb.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read buffer length: %w", err)
	}
	return length, nil
}

// Drain atomically claims the room's buffer by renaming it onto a
// processing key, then reads and deletes the claimed list. RENAME fails
// when the source key is absent, so under concurrent drains exactly one
// caller wins the claim; the rest receive an empty slice.
func (b *RedisBuffer) Drain(ctx context.Context, roomID string) ([]entities.TranscriptFragment, error) {
	src := bufferKey(roomID)
	dst := processingKey(roomID)

	if err := b.rdb.Rename(ctx, src, dst).Err(); err != nil {
		if strings.Contains(err.Error(), "no such key") {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim buffer: %w", err)
	}

	items, err := b.rdb.LRange(ctx, dst, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read claimed buffer: %w", err)
	}
	if err := b.rdb.Del(ctx, dst).Err(); err != nil {
		b.logger.Warn("failed to delete processing key",
			zap.String("room_id", roomID),
			zap.Error(err),
		)
	}

	fragments := make([]entities.TranscriptFragment, 0, len(items))
	for _, item := range items {
		var f entities.TranscriptFragment
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			b.logger.Warn("skipping malformed buffer entry",
				zap.String("room_id", roomID),
				zap.Error(err),
			)
			continue
		}
		fragments = append(fragments, f)
	}
	return fragments, nil
}

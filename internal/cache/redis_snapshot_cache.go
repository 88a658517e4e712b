package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gnatwriter/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.SnapshotCache = (*redisSnapshotCache)(nil)

// redisSnapshotCache stores serialized story documents keyed by story id.
// Mutating controllers invalidate the affected story; the TTL is a backstop
// for invalidations lost to crashes.
type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSnapshotCache creates a Redis-backed snapshot cache.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) interfaces.SnapshotCache {
	return &redisSnapshotCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisSnapshotCache"),
	}
}

func snapshotKey(storyID uuid.UUID) string {
	return fmt.Sprintf("story_snapshot:%s", storyID)
}

// Get returns the cached document, or (nil, nil) on a miss.
func (c *redisSnapshotCache) Get(ctx context.Context, storyID uuid.UUID) ([]byte, error) {
	val, err := c.client.Get(ctx, snapshotKey(storyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		c.logger.Warn("Snapshot cache read failed", zap.Error(err), zap.String("storyID", storyID.String()))
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}
	return val, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, storyID uuid.UUID, document []byte) error {
	if err := c.client.Set(ctx, snapshotKey(storyID), document, c.ttl).Err(); err != nil {
		c.logger.Warn("Snapshot cache write failed", zap.Error(err), zap.String("storyID", storyID.String()))
		return fmt.Errorf("failed to write snapshot cache: %w", err)
	}
	return nil
}

func (c *redisSnapshotCache) Invalidate(ctx context.Context, storyID uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(storyID)).Err(); err != nil {
		c.logger.Warn("Snapshot cache invalidation failed", zap.Error(err), zap.String("storyID", storyID.String()))
		return fmt.Errorf("failed to invalidate snapshot cache: %w", err)
	}
	c.logger.Debug("Snapshot invalidated", zap.String("storyID", storyID.String()))
	return nil
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tour-backoffice/internal/common/database"
	"tour-backoffice/internal/common/logger"
	"tour-backoffice/internal/common/metrics"
	"tour-backoffice/internal/models"

	"github.com/redis/go-redis/v9"
)

// CachedRepository serves Get from Redis and drops the cached copy on every
// write. Cache failures are logged and fall through to the wrapped store.
type CachedRepository struct {
	Repository
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(inner Repository, client *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedRepository {
	return &CachedRepository{
		Repository: inner,
		redis:      client,
		ttl:        ttl,
		logger:     log.WithFields(map[string]interface{}{"component": "record-cache"}),
	}
}

func (c *CachedRepository) key(resource models.Resource, id string) string {
	return c.redis.RecordKey(string(resource), id)
}

func (c *CachedRepository) Get(ctx context.Context, resource models.Resource, id string) (*Record, error) {
	key := c.key(resource, id)

	cached, err := c.redis.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rec Record
		if jsonErr := json.Unmarshal(cached, &rec); jsonErr == nil {
			rec.Resource = resource
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &rec, nil
		}
		c.logger.Warn("discarding unreadable cache entry", map[string]interface{}{"key": key})
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	rec, err := c.Repository.Get(ctx, resource, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(rec)
	if err == nil {
		err = c.redis.Client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return rec, nil
}

func (c *CachedRepository) Patch(ctx context.Context, resource models.Resource, id string, data map[string]interface{}) (*Record, error) {
	rec, err := c.Repository.Patch(ctx, resource, id, data)
	c.invalidate(ctx, resource, id)
	return rec, err
}

func (c *CachedRepository) Delete(ctx context.Context, resource models.Resource, id string) error {
	err := c.Repository.Delete(ctx, resource, id)
	c.invalidate(ctx, resource, id)
	return err
}

func (c *CachedRepository) invalidate(ctx context.Context, resource models.Resource, id string) {
	key := c.key(resource, id)
	if err := c.redis.Client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

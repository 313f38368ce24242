// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tour-backoffice/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient backs the record cache. Every key it hands out lives under the
// configured prefix so several deployments can share one Redis.
type RedisClient struct {
	Client *redis.Client
	prefix string
}

func NewRedis(cfg config.RedisConfig) *RedisClient {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return NewRedisFromClient(rdb, cfg.KeyPrefix)
}

// NewRedisFromClient wraps an existing client, e.g. a redismock one.
func NewRedisFromClient(client *redis.Client, prefix string) *RedisClient {
	return &RedisClient{Client: client, prefix: strings.TrimSuffix(prefix, ":")}
}

// RecordKey is the cache key of one stored record.
func (c *RedisClient) RecordKey(resource, id string) string {
	key := fmt.Sprintf("record:%s:%s", resource, id)
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amoro/amoro-server/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForUnseenMatches generates the Redis key for a user's unseen-match counter.
func (c *RedisCache) KeyForUnseenMatches(userID uint64) string {
	return fmt.Sprintf("matches:new:%d", userID)
}

// SetUnseenMatchCount caches the unseen-match count for a user with a 1h TTL.
func (c *RedisCache) SetUnseenMatchCount(ctx context.Context, userID uint64, count int64) error {
	key := c.KeyForUnseenMatches(userID)
	return c.Client.Set(ctx, key, count, time.Hour).Err()
}

// GetUnseenMatchCount returns the cached unseen-match count.
// Second return value reports whether the key was present.
func (c *RedisCache) GetUnseenMatchCount(ctx context.Context, userID uint64) (int64, bool, error) {
	key := c.KeyForUnseenMatches(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// InvalidateUnseenMatchCount drops a user's cached counter after a write
// that may have changed their unseen flags.
func (c *RedisCache) InvalidateUnseenMatchCount(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForUnseenMatches(userID)).Err()
}

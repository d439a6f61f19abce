package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore implements ports.Store using a Redis client.
type RedisStore struct {
	r redis.Cmdable
	// optional key prefix to namespace entries
	prefix string
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(r redis.Cmdable, prefix string) *RedisStore {
	return &RedisStore{r: r, prefix: prefix}
}

func (c *RedisStore) namespaced(key string) string {
	if c.prefix == "" {
		return key
	}
	return c.prefix + ":" + key
}

// Get implements Store.Get.
func (c *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.r.Get(ctx, c.namespaced(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Set implements Store.Set. A non-positive ttl keeps the key until it is deleted.
func (c *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.r.Set(ctx, c.namespaced(key), value, ttl).Err()
}

// Delete implements Store.Delete.
func (c *RedisStore) Delete(ctx context.Context, key string) error {
	return c.r.Del(ctx, c.namespaced(key)).Err()
}

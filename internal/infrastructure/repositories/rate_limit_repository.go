package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimitRedisRepository implements rate limiting counter storage with Redis.
type RateLimitRedisRepository struct {
	r redis.Cmdable
}

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r}
}

// IncrementWindow increments a per-tenant counter for a fixed window.
func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	k := fmt.Sprintf("%s:%s:%d", keyPrefix, key, windowStart.Unix())
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, windowStart, err
	}
	return int(incr.Val()), windowStart, nil
}

// RateLimitMemoryRepository keeps fixed-window counters in process memory.
type RateLimitMemoryRepository struct {
	mu       sync.Mutex
	counters map[string]memoryWindow
}

type memoryWindow struct {
	start time.Time
	count int
}

func NewRateLimitMemoryRepository() *RateLimitMemoryRepository {
	return &RateLimitMemoryRepository{counters: make(map[string]memoryWindow)}
}

func (repo *RateLimitMemoryRepository) IncrementWindow(ctx context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Truncate(window)
	k := keyPrefix + ":" + key

	repo.mu.Lock()
	defer repo.mu.Unlock()
	w := repo.counters[k]
	if !w.start.Equal(windowStart) {
		w = memoryWindow{start: windowStart}
	}
	w.count++
	repo.counters[k] = w
	return w.count, windowStart, nil
}

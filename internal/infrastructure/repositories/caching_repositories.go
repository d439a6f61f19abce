package repositories

import (
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
)

// Utility helpers
func cacheSetSilently(c ports.Store, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Store, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingTierRepository decorates a TierRepository with cache-aside. Concurrent misses for
// the same clinic share one lookup.
type CachingTierRepository struct {
	inner ports.TierRepository
	cache ports.Store
	ttl   time.Duration
	sf    singleflight.Group
}

func NewCachingTierRepository(inner ports.TierRepository, cache ports.Store, ttl time.Duration) *CachingTierRepository {
	return &CachingTierRepository{inner: inner, cache: cache, ttl: ttl}
}

func tierCacheKey(clinicID int64) string {
	return "subscription:clinic:" + strconv.FormatInt(clinicID, 10)
}

func (c *CachingTierRepository) GetTier(ctx context.Context, clinicID int64) (tenant.SubscriptionTier, error) {
	key := tierCacheKey(clinicID)
	if v, ok := cacheGet[tenant.SubscriptionTier](c.cache, ctx, key); ok && v.IsValid() {
		return *v, nil
	}
	res, err, _ := c.sf.Do(key, func() (any, error) {
		t, err := c.inner.GetTier(ctx, clinicID)
		if err != nil {
			return tenant.SubscriptionTier(""), err
		}
		cacheSetSilently(c.cache, ctx, key, t, c.ttl)
		return t, nil
	})
	if err != nil {
		return "", err
	}
	return res.(tenant.SubscriptionTier), nil
}

func (c *CachingTierRepository) SetTier(ctx context.Context, clinicID int64, tier tenant.SubscriptionTier) error {
	if err := c.inner.SetTier(ctx, clinicID, tier); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Delete(ctx, tierCacheKey(clinicID))
	}
	return nil
}

package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avatarctic/clinic-console/internal/application/services"
	"github.com/avatarctic/clinic-console/test/mocks"
)

func TestRateLimiterService_Allow(t *testing.T) {
	count := 0
	var prefix string
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(_ context.Context, key string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
		count++
		prefix = keyPrefix
		assert.Equal(t, "clinic1", key)
		assert.Equal(t, 2*window, ttl)
		return count, time.Now().Truncate(window), nil
	}}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{DefaultRequestsPerMinute: 2, BurstMultiplier: 1, KeyPrefix: "rl"}, quietLogger())

	ctx := context.Background()
	allowed, remaining, limit, reset, err := svc.Allow(ctx, "clinic1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 2, limit)
	assert.True(t, reset.After(time.Now().Add(-time.Second)))
	assert.Equal(t, "rl", prefix)

	allowed, remaining, _, _, _ = svc.Allow(ctx, "clinic1")
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, _, _ = svc.Allow(ctx, "clinic1")
	assert.False(t, allowed)
}

func TestRateLimiterService_FailsOpen(t *testing.T) {
	boom := errors.New("redis down")
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(context.Context, string, time.Duration, string, time.Duration) (int, time.Time, error) {
		return 0, time.Now(), boom
	}}
	svc := services.NewRateLimiterService(repo, nil, quietLogger())

	allowed, _, limit, _, err := svc.Allow(context.Background(), "public")
	assert.ErrorIs(t, err, boom)
	assert.True(t, allowed)
	assert.Equal(t, 120, limit)
}

func TestRateLimiterService_PublicBucket(t *testing.T) {
	repo := &mocks.RateLimitRepositoryMock{IncrementWindowFn: func(_ context.Context, _ string, window time.Duration, _ string, _ time.Duration) (int, time.Time, error) {
		return 11, time.Now().Truncate(window), nil
	}}
	svc := services.NewRateLimiterService(repo, &services.RateLimiterConfig{DefaultRequestsPerMinute: 100, PublicRequestsPerMinute: 10, BurstMultiplier: 1}, quietLogger())

	allowed, _, limit, _, err := svc.Allow(context.Background(), "public")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 10, limit)

	allowed, remaining, limit, _, _ := svc.Allow(context.Background(), "clinic1")
	assert.True(t, allowed)
	assert.Equal(t, 89, remaining)
	assert.Equal(t, 100, limit)
}

package services

import (
	"context"
	"time"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/sirupsen/logrus"
)

// RateLimiterConfig groups configuration parameters for the rate limiter.
type RateLimiterConfig struct {
	DefaultRequestsPerMinute int
	// PublicRequestsPerMinute caps the bucket shared by every request that names no clinic.
	// Zero falls back to the default.
	PublicRequestsPerMinute int
	BurstMultiplier         float64
	Window                  time.Duration
	KeyPrefix               string
}

// RateLimiterService counts requests per clinic subdomain in fixed windows.
type RateLimiterService struct {
	repo   ports.RateLimitRepository
	cfg    RateLimiterConfig
	logger *logrus.Logger
}

func NewRateLimiterService(repo ports.RateLimitRepository, cfg *RateLimiterConfig, logger *logrus.Logger) *RateLimiterService {
	c := RateLimiterConfig{
		DefaultRequestsPerMinute: 120,
		BurstMultiplier:          2.0,
		Window:                   time.Minute,
		KeyPrefix:                "ratelimit:tenant",
	}
	if cfg != nil {
		if cfg.DefaultRequestsPerMinute > 0 {
			c.DefaultRequestsPerMinute = cfg.DefaultRequestsPerMinute
		}
		c.PublicRequestsPerMinute = cfg.PublicRequestsPerMinute
		if cfg.BurstMultiplier > 0 {
			c.BurstMultiplier = cfg.BurstMultiplier
		}
		if cfg.Window > 0 {
			c.Window = cfg.Window
		}
		if cfg.KeyPrefix != "" {
			c.KeyPrefix = cfg.KeyPrefix
		}
	}
	if c.PublicRequestsPerMinute <= 0 {
		c.PublicRequestsPerMinute = c.DefaultRequestsPerMinute
	}
	return &RateLimiterService{repo: repo, cfg: c, logger: logger}
}

// limitFor is the advertised per-window limit of a bucket.
func (s *RateLimiterService) limitFor(tenantKey string) int {
	if tenantKey == tenant.PublicLabel {
		return s.cfg.PublicRequestsPerMinute
	}
	return s.cfg.DefaultRequestsPerMinute
}

// Allow counts one request for tenantKey (a clinic subdomain or the public label). A bucket
// may reach limit times the burst multiplier before requests are refused. Storage failures
// let the request through and are returned alongside.
func (s *RateLimiterService) Allow(ctx context.Context, tenantKey string) (bool, int, int, time.Time, error) {
	limit := s.limitFor(tenantKey)
	ceiling := int(float64(limit) * s.cfg.BurstMultiplier)

	count, windowStart, err := s.repo.IncrementWindow(ctx, tenantKey, s.cfg.Window, s.cfg.KeyPrefix, 2*s.cfg.Window)
	reset := windowStart.Add(s.cfg.Window)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"subdomain": tenantKey}).WithError(err).Error("rate limiter: failed to increment window")
		}
		return true, ceiling, limit, reset, err
	}

	if count > ceiling {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"subdomain": tenantKey, "count": count, "ceiling": ceiling}).Warn("rate limit exceeded")
		}
		return false, 0, limit, reset, nil
	}
	return true, ceiling - count, limit, reset, nil
}

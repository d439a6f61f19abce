package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/avatarctic/clinic-console/internal/core/domain/tenant"
	"github.com/avatarctic/clinic-console/internal/core/ports"
	"github.com/avatarctic/clinic-console/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	limiter ports.RateLimiterService
	logger  *logrus.Logger
}

func NewRateLimitMiddleware(limiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, logger: logger}
}

// bucket is the clinic the request is charged to. Hosts without a subdomain share one bucket.
func bucket(c echo.Context) string {
	if ws, ok := helpers.GetWorkspaceRaw(c); ok {
		return ws.Tenant.Context().Label()
	}
	return tenant.NewContext(c.Request().Host).Label()
}

// Handler limits requests per clinic subdomain. It is a no-op without a limiter.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if r.limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			key := bucket(c)
			allowed, remaining, limit, reset, err := r.limiter.Allow(c.Request().Context(), key)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("subdomain", key).Warn("rate limiter unavailable; request allowed")
				}
				return next(c)
			}
			if !allowed {
				wait := int(time.Until(reset).Seconds()) + 1
				if wait < 1 {
					wait = 1
				}
				h.Set("Retry-After", strconv.Itoa(wait))
				return echo.NewHTTPError(http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded", "subdomain": key})
			}
			return next(c)
		}
	}
}

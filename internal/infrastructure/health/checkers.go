package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/clinic-console/internal/core/ports"
	infraDB "github.com/avatarctic/clinic-console/internal/infrastructure/db"
)

// dbHealthChecker wraps the audit database for health checks.
type dbHealthChecker struct{ db *infraDB.Database }

func (d *dbHealthChecker) Name() string                    { return "database" }
func (d *dbHealthChecker) Check(ctx context.Context) error { return d.db.DB.PingContext(ctx) }

// redisHealthChecker wraps the workspace store client for health checks.
type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// Pinger is anything that can tell whether a remote peer answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type backendHealthChecker struct{ p Pinger }

func (b *backendHealthChecker) Name() string                    { return "backend" }
func (b *backendHealthChecker) Check(ctx context.Context) error { return b.p.Ping(ctx) }

// NewDBHealthChecker creates a health checker for the database.
func NewDBHealthChecker(db *infraDB.Database) ports.HealthChecker { return &dbHealthChecker{db: db} }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// NewBackendHealthChecker reports the clinic backend as unhealthy when it cannot be reached.
func NewBackendHealthChecker(p Pinger) ports.HealthChecker {
	return &backendHealthChecker{p: p}
}

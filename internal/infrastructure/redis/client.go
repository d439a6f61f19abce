package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	config "github.com/avatarctic/clinic-console/configs"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const connectAttempts = 3

// NewRedisClient opens the workspace store connection, retrying the first ping with a growing delay.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	})

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		if logger != nil {
			logger.WithFields(logrus.Fields{"addr": client.Options().Addr, "attempt": attempt}).WithError(err).Warn("Redis not reachable yet")
		}
		if attempt == connectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to Redis: %w", err)
}

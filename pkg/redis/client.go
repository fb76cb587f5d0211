package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client owns the shared Redis connection pool.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client
func New(addr, password string, db int) *Client {
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			PoolSize:     100,
			MinIdleConns: 10,
		}),
	}
}

// Connect pings Redis until it answers or maxElapsed passes.
func (c *Client) Connect(ctx context.Context, maxElapsed time.Duration, logger *zap.Logger) error {
	const operation = "redis.Connect"

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = maxElapsed
	retryPolicy.MaxInterval = 5 * time.Second

	logger.Info("Connecting to Redis...", zap.String("addr", c.client.Options().Addr))

	err := backoff.RetryNotify(
		func() error {
			return c.client.Ping(ctx).Err()
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("Redis ping failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

// Redis exposes the underlying go-redis client for storage packages.
func (c *Client) Redis() *redis.Client {
	return c.client
}

// Close closes the Redis connection
func (c *Client) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

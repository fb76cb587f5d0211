package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimiter counts actions per key in fixed windows.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow records one action for key and returns ErrRateLimited once the
// window's limit is used up.
func (r *RateLimiter) Allow(ctx context.Context, action, key string) error {
	k := fmt.Sprintf("ratelimit:%s:%s", action, key)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// opens the window on the first hit; INCR keeps the TTL
		pipe.SetNX(ctx, k, 0, r.window)
		incr = pipe.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to count rate limited action: %w", err)
	}

	count := incr.Val()
	if count > r.limit {
		return ErrRateLimited
	}
	return nil
}

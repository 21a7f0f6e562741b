package redis

import (
	"context"
	"fmt"
	"time"
)

// RateLimiter is a fixed-window counter shared across instances, unlike a
// per-process map which resets on restart and splits under horizontal scaling.
type RateLimiter struct {
	client Client
}

func NewRateLimiter(client Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow increments the window counter and reports whether the caller is under
// the limit. retryAfter is how long until the window resets (only meaningful
// when allowed is false).
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error) {
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window); err != nil {
			return false, 0, err
		}
	}
	if count > int64(limit) {
		ttl, err := r.client.TTL(ctx, key)
		if err != nil || ttl < 0 {
			ttl = window
		}
		return false, ttl, nil
	}
	return true, 0, nil
}

func RequestKey(ip, path string) string {
	return fmt.Sprintf("rate_limit:%s:%s", ip, path)
}

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "teams:ratelimit"

// RateLimiter is a fixed-window counter kept in redis.
type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(ctx context.Context, redisURL string) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid redis URL")
	}

	client := redis.NewClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis connection failed")
	}

	return &RateLimiter{redis: client}, nil
}

// Allow counts one hit for key in the current window and reports whether the
// count is still within limit, together with the count itself.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	wk := windowKey(key, time.Now(), window)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, wk)
	pipe.Expire(ctx, wk, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

func (rl *RateLimiter) Ping(ctx context.Context) error {
	return rl.redis.Ping(ctx).Err()
}

func (rl *RateLimiter) Close() error {
	return rl.redis.Close()
}

func windowKey(key string, now time.Time, window time.Duration) string {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%s:%s:%d", keyPrefix, key, now.Unix()/secs)
}

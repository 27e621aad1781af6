package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisLimiter shares rate limit windows between server instances. Redis
// failures let the request through.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisLimiter(client *redis.Client, prefix string, logger *slog.Logger) *RedisLimiter {
	if prefix == "" {
		prefix = "basket:ratelimit"
	}
	return &RedisLimiter{client: client, prefix: prefix, logger: logger}
}

// Allow increments key's counter, starting a new window on the first hit.
func (rl *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	k := rl.prefix + ":" + key
	n, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		rl.logger.Error("rate limit incr", "key", key, "error", err)
		return true
	}
	if n == 1 {
		if err := rl.client.PExpire(ctx, k, window).Err(); err != nil {
			rl.logger.Error("rate limit expire", "key", key, "error", err)
		}
	}
	return n <= int64(limit)
}

package ratelimiter

import (
	"context"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "cadettrack:ratelimit:"

type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	frame  time.Duration
	logger *zap.SugaredLogger
}

func NewRedisLimiter(client redis.UniversalClient, cfg config.RateLimiterConfig, logger *zap.SugaredLogger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client: client,
		limit:  cfg.RequestsPerTimeFrame,
		frame:  cfg.TimeFrame,
		logger: logger,
	}
}

// Allow increments the key's counter; the first hit of a window sets its
// expiry, which is when the window resets.
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	redisKey := redisKeyPrefix + key

	count, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}

	if count == 1 {
		if err := rl.client.PExpire(ctx, redisKey, rl.frame).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(rl.limit) {
		return true, 0, nil
	}

	ttl, err := rl.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if ttl < 0 {
		// counter lost its expiry, start a new window
		rl.logger.Warnf("Rate limit key %s had no expiry, resetting", redisKey)
		if err := rl.client.PExpire(ctx, redisKey, rl.frame).Err(); err != nil {
			return false, 0, err
		}
		ttl = rl.frame
	}

	return false, ttl, nil
}

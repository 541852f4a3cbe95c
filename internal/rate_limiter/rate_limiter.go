package ratelimiter

import (
	"context"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/SeakMengs/CadetTrack/internal/util"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter counts requests per key inside a fixed time window.
// Allow reports whether the request may proceed and, when it may not, how long
// until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// NewRateLimiter shares counters through redis when an address is configured
// and keeps them in process memory otherwise.
func NewRateLimiter(cfg config.RateLimiterConfig, redisCfg config.RedisConfig, logger *zap.SugaredLogger) Limiter {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test", "")
	}

	if redisCfg.ADDR == "" {
		logger.Debug("Rate limiter: using in-memory fixed window")
		return NewFixedWindowLimiter(cfg, logger)
	}

	logger.Debugf("Rate limiter: using redis at %s", redisCfg.ADDR)
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.ADDR,
		Password: redisCfg.PASSWORD,
		DB:       redisCfg.DB,
	})
	return NewRedisLimiter(client, cfg, logger)
}

package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/SeakMengs/CadetTrack/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var testCfg = config.RateLimiterConfig{RequestsPerTimeFrame: 3, TimeFrame: time.Minute, Enabled: true}

func TestFixedWindowLimiter(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewFixedWindowLimiter(testCfg, zap.NewNop().Sugar())
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if ok, _, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
			t.Fatalf("request %d denied", i+1)
		}
	}

	ok, retry, err := rl.Allow(ctx, "1.2.3.4")
	if err != nil || ok {
		t.Fatalf("fourth request allowed=%v err=%v", ok, err)
	}
	if retry != time.Minute {
		t.Errorf("retry = %v, want 1m", retry)
	}

	if ok, _, _ := rl.Allow(ctx, "5.6.7.8"); !ok {
		t.Error("other client shares the counter")
	}

	now = now.Add(time.Minute)
	if ok, _, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Error("window did not reset")
	}
	if _, ok := rl.clients["5.6.7.8"]; ok {
		t.Error("expired window was not swept")
	}
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRedisLimiter(client, testCfg, zap.NewNop().Sugar())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := rl.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("request %d denied", i+1)
		}
	}

	ok, retry, err := rl.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("fourth request allowed")
	}
	if retry <= 0 || retry > time.Minute {
		t.Errorf("retry = %v", retry)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _, _ := rl.Allow(ctx, "1.2.3.4"); !ok {
		t.Error("window did not reset after expiry")
	}
}

func TestRedisLimiterReportsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRedisLimiter(client, testCfg, zap.NewNop().Sugar())
	mr.Close()

	if _, _, err := rl.Allow(context.Background(), "1.2.3.4"); err == nil {
		t.Error("expected an error with redis down")
	}
}

func TestNewRateLimiterPicksBackend(t *testing.T) {
	if _, ok := NewRateLimiter(testCfg, config.RedisConfig{}, zap.NewNop().Sugar()).(*FixedWindowRateLimiter); !ok {
		t.Error("expected in-memory limiter without redis address")
	}
	if _, ok := NewRateLimiter(testCfg, config.RedisConfig{ADDR: "127.0.0.1:6379"}, zap.NewNop().Sugar()).(*RedisRateLimiter); !ok {
		t.Error("expected redis limiter with an address")
	}
}

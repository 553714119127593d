// Package ratelimit limits how many requests a client may make in a
// sliding window, in memory or shared through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/config"
)

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow records one request for key and reports whether it is allowed.
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result represents the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests left in the current window.
	Remaining int

	// ResetAfter is the time until the oldest counted request leaves the window.
	ResetAfter time.Duration

	// RetryAfter is the time to wait before retrying when not allowed.
	RetryAfter time.Duration
}

func result(allowed bool, limit, count int, resetAfter time.Duration) *Result {
	r := &Result{
		Allowed:    allowed,
		Limit:      limit,
		Remaining:  max(limit-count, 0),
		ResetAfter: max(resetAfter, 0),
	}
	if !allowed {
		r.RetryAfter = r.ResetAfter
	}
	return r
}

// New builds the limiter selected by cfg.RateLimit.Backend.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (Limiter, func() error, error) {
	rl := cfg.RateLimit
	switch rl.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("rate limiter using redis", zap.String("addr", cfg.Redis.Addr))
		return NewRedis(client, rl.Max, rl.Window), client.Close, nil
	case "memory", "":
		return NewSlidingWindow(rl.Max, rl.Window), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", rl.Backend)
	}
}

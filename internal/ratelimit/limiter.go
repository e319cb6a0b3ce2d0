package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter throttles sign-in attempts per email using a Redis
// counter with a sliding window set on first increment. When Redis is
// unreachable the limiter fails open so an outage cannot lock everyone
// out.
type LoginLimiter struct {
	client *redis.Client
	logger *zap.Logger
	max    int
	window time.Duration
}

// NewLoginLimiter builds a limiter. A nil client disables limiting.
func NewLoginLimiter(client *redis.Client, logger *zap.Logger, max int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, logger: logger, max: max, window: window}
}

// Allow records an attempt for the email and reports whether it is
// within the configured budget.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.client == nil || l.max <= 0 {
		return true
	}

	key := fmt.Sprintf("login_attempts:%s", email)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.max)
}

// Reset clears the attempt counter after a successful sign-in.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, fmt.Sprintf("login_attempts:%s", email)).Err(); err != nil {
		l.logger.Warn("login limiter reset failed", zap.Error(err))
	}
}

package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/tair/fabstock/pkg/logger"
)

// RateLimiter is a Redis sliding-window limiter keyed by member.
type RateLimiter struct {
	redis       *redis.Client
	maxRequests int
	window      time.Duration
	prefix      string
}

// NewRateLimiter creates a limiter allowing maxRequests per window. A nil client disables limiting.
func NewRateLimiter(client *redis.Client, prefix string, maxRequests int, window time.Duration) *RateLimiter {
	if client == nil || maxRequests <= 0 {
		return nil
	}
	return &RateLimiter{
		redis:       client,
		maxRequests: maxRequests,
		window:      window,
		prefix:      prefix,
	}
}

// Middleware limits requests per authenticated member, falling back to the remote address.
// Limiter errors let the request through.
func (rl *RateLimiter) Middleware(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		identifier := "ip:" + r.RemoteAddr
		if member, ok := MemberFromContext(r.Context()); ok {
			identifier = "member:" + member.ID
		}

		allowed, remaining, resetTime, err := rl.checkLimit(r.Context(), identifier)
		if err != nil {
			logger.Error(r.Context()).
				Err(err).
				Str("identifier", identifier).
				Msg("Rate limiter error")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.maxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			logger.Warn(r.Context()).
				Str("identifier", identifier).
				Int("limit", rl.maxRequests).
				Msg("Rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			respondError(w, http.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Try again in %v", time.Until(resetTime).Round(time.Second)))
			return
		}

		next.ServeHTTP(w, r)
	}
}

// checkLimit records the request in a sorted set scored by time and counts the requests in the window.
func (rl *RateLimiter) checkLimit(ctx context.Context, identifier string) (bool, int, time.Time, error) {
	key := rl.prefix + identifier
	now := time.Now()
	windowStart := now.Add(-rl.window)

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, rl.window+time.Minute)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(countCmd.Val())
	remaining := max(rl.maxRequests-count-1, 0)
	return count < rl.maxRequests, remaining, now.Add(rl.window), nil
}

package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spectral-labs/auth-api/internal/logger"
)

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// incrWithExpire counts a hit and sets the window TTL only on the first
// hit, so the window does not slide.
var incrWithExpire = goredis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {hits, ttl}
`)

// FixedWindowLimiter allows up to Limit hits per Window per key.
// A nil limiter, or a Redis failure, fails open.
type FixedWindowLimiter struct {
	client *Client
	limit  int64
	window time.Duration
}

func NewFixedWindowLimiter(client *Client, limit int64, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, limit: limit, window: window}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) Decision {
	if l == nil || l.client == nil || l.client.rdb == nil {
		return Decision{Allowed: true, Remaining: -1}
	}

	res, err := incrWithExpire.Run(ctx, l.client.rdb,
		[]string{"ratelimit:" + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(res) != 2 {
		logger.WithCtx(ctx).Warn().Err(err).Str("key", key).
			Msg("rate limit check failed, allowing request")
		return Decision{Allowed: true, Remaining: -1}
	}

	hits, ttlMs := res[0], res[1]
	if hits > l.limit {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: time.Duration(ttlMs) * time.Millisecond,
		}
	}
	return Decision{Allowed: true, Remaining: l.limit - hits}
}

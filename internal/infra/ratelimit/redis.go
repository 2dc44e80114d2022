package ratelimit

import (
	"context"
	"errors"
	"time"

	"campussync/internal/domain"

	"github.com/redis/go-redis/v9"
)

// keyNamespace isolates limiter counters from anything else stored in the
// same redis database.
const keyNamespace = "campussync:ratelimit:"

// fixedWindowScript counts the request and stamps the window TTL on the
// first hit, atomically, so concurrent instances agree on the window edge.
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type redisLimiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisLimiter shares one fixed window across all instances serving the
// same redis.
func NewRedisLimiter(addr, password string, db int, now func() time.Time) (domain.RateLimiter, error) {
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	if now == nil {
		now = time.Now
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisLimiter{client: client, now: now}, nil
}

func (r *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (domain.RateLimitDecision, error) {
	if limit <= 0 {
		return domain.RateLimitDecision{Allowed: true, Limit: limit, Remaining: limit}, nil
	}
	windowMillis := window.Milliseconds()
	if windowMillis <= 0 {
		windowMillis = 1000
	}
	reply, err := fixedWindowScript.Run(ctx, r.client, []string{keyNamespace + key}, windowMillis).Result()
	if err != nil {
		return domain.RateLimitDecision{}, err
	}
	count, ttlMillis, err := parseWindowReply(reply)
	if err != nil {
		return domain.RateLimitDecision{}, err
	}

	resetAt := r.now()
	if ttlMillis > 0 {
		resetAt = resetAt.Add(time.Duration(ttlMillis) * time.Millisecond)
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return domain.RateLimitDecision{
		Allowed:   count <= int64(limit),
		Limit:     limit,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}

// parseWindowReply unpacks the {count, pttl} pair the script returns.
func parseWindowReply(reply any) (count, ttlMillis int64, err error) {
	values, ok := reply.([]any)
	if !ok || len(values) < 2 {
		return 0, 0, errors.New("unexpected rate limit script reply")
	}
	count, ok = values[0].(int64)
	if !ok {
		return 0, 0, errors.New("non-integer rate limit counter")
	}
	ttlMillis, _ = values[1].(int64)
	return count, ttlMillis, nil
}

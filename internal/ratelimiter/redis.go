package ratelimiter

import (
	"context"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces limiter keys in the shared Redis.
const keyPrefix = "bff:"

// RedisLimiter is a GCRA limiter shared by every instance of the service.
type RedisLimiter struct {
	limiter *redis_rate.Limiter
	burst   int
}

// NewRedisLimiter builds a limiter on client. A burst of 0 means the burst
// equals the quota.
func NewRedisLimiter(client redis.UniversalClient, burst int) *RedisLimiter {
	return &RedisLimiter{
		limiter: redis_rate.NewLimiter(client),
		burst:   burst,
	}
}

func (rl *RedisLimiter) Allow(ctx context.Context, key string, quota int, duration time.Duration) (Result, error) {
	res := Result{}

	burst := rl.burst
	if burst <= 0 {
		burst = quota
	}
	limit := redis_rate.Limit{
		Rate:   quota,
		Burst:  burst,
		Period: duration,
	}

	r, err := rl.limiter.Allow(ctx, keyPrefix+key, limit)
	if err != nil {
		return res, err
	}

	res.Allowed = r.Allowed > 0
	res.Remaining = r.Remaining
	res.Reset = r.ResetAfter
	if r.RetryAfter != -1 {
		res.RetryAfter = r.RetryAfter
	}
	return res, nil
}

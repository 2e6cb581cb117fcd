// Package ratelimiter counts requests per key against a quota.
package ratelimiter

import (
	"context"
	"time"
)

type Result struct {
	Allowed    bool
	Remaining  int
	Reset      time.Duration
	RetryAfter time.Duration
}

// RateLimiter allows quota requests per duration for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, quota int, duration time.Duration) (Result, error)
}

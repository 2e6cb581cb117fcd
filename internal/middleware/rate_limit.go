package middleware

import (
	"context"
	"time"

	"github.com/deppfellow/speakers-bff/internal/config"
	"github.com/deppfellow/speakers-bff/internal/errs"
	"github.com/deppfellow/speakers-bff/internal/ratelimiter"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// limiterTimeout bounds a single Redis round trip of the limiter.
const limiterTimeout = 200 * time.Millisecond

type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if r.server.LoggerService != nil && r.server.LoggerService.GetApplication() != nil {
		r.server.LoggerService.GetApplication().RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}

// Limit enforces Config.RateLimit per client IP. Denied requests get a 429
// TOO_MANY_REQUESTS.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.RateLimit
	if cfg == nil || !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.store(cfg),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewForbiddenError("Could not identify client", false)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			if err != nil {
				return err
			}

			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Msg("rate limit exceeded")

			return errs.NewTooManyRequestsError("Too many requests, please try again later")
		},
	})
}

// store picks the shared Redis limiter when configured and reachable at
// startup, otherwise a per-instance memory store.
func (r *RateLimitMiddleware) store(cfg *config.RateLimitConfig) middleware.RateLimiterStore {
	if cfg.Store == config.RateLimitStoreRedis && r.server.Redis != nil {
		return &limiterStore{
			limiter: ratelimiter.NewRedisLimiter(r.server.Redis, cfg.Burst),
			quota:   cfg.Requests,
			window:  cfg.Window,
			logger:  r.server.Logger,
		}
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		Burst:     cfg.Burst,
		ExpiresIn: 3 * cfg.Window,
	})
}

// limiterStore adapts a ratelimiter.RateLimiter to Echo's store interface.
// It fails open: requests are allowed while the limiter backend errors.
type limiterStore struct {
	limiter ratelimiter.RateLimiter
	quota   int
	window  time.Duration
	logger  *zerolog.Logger
}

func (s *limiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), limiterTimeout)
	defer cancel()

	res, err := s.limiter.Allow(ctx, identifier, s.quota, s.window)
	if err != nil {
		s.logger.Error().Err(err).Msg("rate limiter unavailable, allowing request")
		return true, nil
	}

	return res.Allowed, nil
}

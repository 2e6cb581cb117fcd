package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/deppfellow/speakers-bff/internal/middleware"
	"github.com/deppfellow/speakers-bff/internal/server"
	"github.com/labstack/echo/v4"
)

// defaultCheckTimeout applies when the health check config sets none.
const defaultCheckTimeout = 5 * time.Second

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

// dependencies lists the configured checks whose dependency exists.
func (h *HealthHandler) dependencies() []dependencyCheck {
	cfg := h.server.Config.Observability
	if cfg == nil || !cfg.HealthChecks.Enabled {
		return nil
	}

	var checks []dependencyCheck
	if slices.Contains(cfg.HealthChecks.Checks, "database") && h.server.DB != nil {
		checks = append(checks, dependencyCheck{name: "database", ping: h.server.DB.Ping})
	}
	if slices.Contains(cfg.HealthChecks.Checks, "redis") && h.server.Redis != nil {
		checks = append(checks, dependencyCheck{name: "redis", ping: func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

func (h *HealthHandler) timeout() time.Duration {
	if cfg := h.server.Config.Observability; cfg != nil && cfg.HealthChecks.Timeout > 0 {
		return cfg.HealthChecks.Timeout
	}
	return defaultCheckTimeout
}

// CheckHealth answers 200 when every configured dependency responds and 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	isHealthy := true
	for _, dep := range h.dependencies() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout())
		depStart := time.Now()
		err := dep.ping(ctx)
		elapsed := time.Since(depStart)
		cancel()

		if err != nil {
			isHealthy = false
			checks[dep.name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}

			logger.Error().
				Err(err).
				Str("check", dep.name).
				Dur("response_time", elapsed).
				Msg("health check failed")

			h.recordFailure(map[string]any{
				"check_type":       dep.name,
				"operation":        "health_check",
				"error_type":       dep.name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
			continue
		}

		checks[dep.name] = map[string]any{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("service unhealthy")

		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// recordFailure sends a HealthCheckError custom event when New Relic runs.
func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", attrs)
}

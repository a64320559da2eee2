package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandlers handles liveness and readiness probes
type HealthHandlers struct {
	checks  map[string]Pinger
	version string
	started time.Time
	timeout time.Duration
}

// NewHealthHandlers creates health handlers over the named dependency checks
func NewHealthHandlers(version string, checks map[string]Pinger) *HealthHandlers {
	return &HealthHandlers{
		checks:  checks,
		version: version,
		started: time.Now(),
		timeout: 2 * time.Second,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services,omitempty"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// LivenessCheck godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, &HealthStatus{
		Status:     "alive",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	})
}

// ReadinessCheck pings every dependency and reports 503 if any is down.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "ready",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string, len(h.checks)),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "not_ready"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status != "ready" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}

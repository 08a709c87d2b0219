package handlers

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

type softError struct{ error }

func (e softError) Unwrap() error { return e.error }

// Soft marks a dependency the game can run without. A failing seat store only
// costs the reload shortcut, so it degrades the status instead of failing it.
func Soft(check Check) Check {
	return func(ctx context.Context) error {
		if err := check(ctx); err != nil {
			return softError{err}
		}
		return nil
	}
}

type HealthHandler struct {
	checks  map[string]Check
	started time.Time
	version string
}

func NewHealthHandler(version string, checks map[string]Check) *HealthHandler {
	if checks == nil {
		checks = map[string]Check{}
	}
	return &HealthHandler{checks: checks, started: time.Now(), version: version}
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness - the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness runs every check and reports each one.
func (h *HealthHandler) Readiness(c *gin.Context) {
	h.respond(c, 5*time.Second, true)
}

// Health is the short form: status and version only.
func (h *HealthHandler) Health(c *gin.Context) {
	h.respond(c, 3*time.Second, false)
}

func (h *HealthHandler) respond(c *gin.Context, timeout time.Duration, detailed bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	checks, status := h.run(ctx)
	code := http.StatusOK
	if status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	resp := HealthResponse{
		Status:    status,
		Version:   h.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if detailed || code != http.StatusOK {
		resp.Checks = checks
	}
	if detailed {
		resp.Uptime = time.Since(h.started).Round(time.Second).String()
	}
	c.JSON(code, resp)
}

// run returns per-check results and the overall status:
// healthy, degraded (only soft checks failed) or unhealthy.
func (h *HealthHandler) run(ctx context.Context) (map[string]string, string) {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	status := "healthy"
	for _, name := range names {
		err := h.checks[name](ctx)
		var soft softError
		switch {
		case err == nil:
			out[name] = "healthy"
		case errors.As(err, &soft):
			out[name] = "degraded: " + soft.error.Error()
			if status == "healthy" {
				status = "degraded"
			}
		default:
			out[name] = "unhealthy: " + err.Error()
			status = "unhealthy"
		}
	}
	return out, status
}

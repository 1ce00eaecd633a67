package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger is a dependency the health check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports whether the server and its dependencies are up
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a health handler probing the named dependencies
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second, now: time.Now}
}

// Health handles GET /health. Any failing dependency makes it a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status, code := "healthy", http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "error"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}
	c.JSON(code, gin.H{
		"status":       status,
		"time":         h.now().Format(time.RFC3339),
		"dependencies": deps,
	})
}

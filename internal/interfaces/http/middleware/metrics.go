package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count, latency and in-flight requests.
// Routes are labelled by their pattern to keep cardinality bounded.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.RequestInFlight.Inc()
		defer m.RequestInFlight.Dec()

		c.Next()

		route := getRoutePattern(c)
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		m.RequestTotal.WithLabelValues(method, route, status).Inc()
		m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}
}

func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// HTTPMetricsStatusGroup groups a status code into its class
func HTTPMetricsStatusGroup(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}

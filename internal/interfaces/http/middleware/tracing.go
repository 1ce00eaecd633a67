package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength bounds client supplied request ids
const MaxRequestIDLength = 128

type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPaths are never traced (health checks, scrapes)
	SkipPaths []string
}

// TracingWithConfig starts a server span per request through otelgin, named
// after the matched route. Follow it with SpanDecorator.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	skip := slices.Clone(cfg.SkipPaths)
	return otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !slices.Contains(skip, r.URL.Path)
	}))
}

// SpanDecorator runs the rest of the chain, then annotates the request span
// with what the chain learned: request, session and user ids, and an error
// status for 4xx/5xx responses. It must sit after TracingWithConfig so the
// span is still open when the chain returns.
func SpanDecorator() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		for key, value := range map[string]string{
			"request_id": GetRequestID(c),
			"session_id": GetSessionID(c),
			"user_id":    GetJWTUserID(c),
		} {
			if value != "" {
				span.SetAttributes(attribute.String(key, value))
			}
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			if len(c.Errors) > 0 {
				span.SetAttributes(attribute.String("error.message", c.Errors.Last().Error()))
			}
		}
	}
}

package logger

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const ginLoggerKey = "logger"

// query parameters whose values never reach the logs
var redactedParams = []string{"token", "password", "access_token"}

type ginOptions struct {
	quiet map[string]bool
}

// GinOption configures GinMiddleware
type GinOption func(*ginOptions)

// WithQuietPaths logs successful requests to paths at Debug instead of Info.
// Health checks and scrapes would otherwise dominate the access log.
func WithQuietPaths(paths ...string) GinOption {
	return func(o *ginOptions) {
		for _, p := range paths {
			o.quiet[p] = true
		}
	}
}

// GinMiddleware writes one access log line per request and stores a
// request-scoped logger in both the gin and the request context.
func GinMiddleware(logger *zap.Logger, opts ...GinOption) gin.HandlerFunc {
	o := ginOptions{quiet: map[string]bool{}}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx, reqLogger := WithRequestID(c.Request.Context(), logger, c.GetString("request_id"))
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if q := redactQuery(c.Request.URL.RawQuery); q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if userID := c.GetString("user_id"); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		level := zapcore.InfoLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zapcore.WarnLevel
		case o.quiet[c.Request.URL.Path]:
			level = zapcore.DebugLevel
		}
		WithTraceContext(c.Request.Context(), reqLogger).Log(level, "HTTP request", fields...)
	}
}

func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return raw
	}
	changed := false
	for _, key := range redactedParams {
		if values.Has(key) {
			values.Set(key, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}
	return values.Encode()
}

// Recovery turns a panic into a 500 in the API error envelope
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString("request_id")
			WithTraceContext(c.Request.Context(), logger).Error("Panic recovered",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "INTERNAL_ERROR",
					"message":    "An internal error occurred",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}

// GetGinLogger returns the request logger, or a no-op logger outside a request
func GetGinLogger(c *gin.Context) *zap.Logger {
	if zl, ok := c.Value(ginLoggerKey).(*zap.Logger); ok {
		return zl
	}
	return zap.NewNop()
}

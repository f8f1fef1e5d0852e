package middleware

import (
	"log/slog"
	"time"

	"Child_Shield/internal/pkg/logctx"

	"github.com/gin-gonic/gin"
)

// Logging puts a request-scoped logger into the request context and writes one
// access record per request.
func Logging(l *slog.Logger) gin.HandlerFunc {
	if l == nil {
		l = slog.Default()
	}
	return func(c *gin.Context) {
		reqLogger := l
		if rid := c.GetHeader(RequestIDHeader); rid != "" {
			reqLogger = reqLogger.With(slog.String("request_id", rid))
		}
		ctx := logctx.Into(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		reqLogger.LogAttrs(ctx, level, "http",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("dur", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

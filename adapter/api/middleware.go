package api

import (
	"log/slog"
	"time"

	"github.com/Animesh0711/DailyEase/pkg/observability"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// requestID takes the caller's request id or generates one, stores it on the
// request context and echoes it back.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := observability.WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, observability.RequestIDFromContext(ctx))
		c.Next()
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= 500 {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			observability.DurationKey, time.Since(start).Milliseconds(),
		)
	}
}

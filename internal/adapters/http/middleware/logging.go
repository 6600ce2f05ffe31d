package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/platform/logging"
)

// Logging logs each request's start and completion through the context
// logger. Paths under /-/ and any skipPaths are not logged. When the route
// carries a :userID parameter the user ID is added to the context logger, so
// backend calls made for the request are tagged with it.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok || strings.HasPrefix(path, "/-/") {
			c.Next()
			return
		}

		ctxLogger := logging.FromContextOr(c.Request.Context(), logger)
		if userID := c.Param("userID"); userID != "" {
			ctxLogger = ctxLogger.With(slog.String("user_id", userID))
			c.Request = c.Request.WithContext(logging.WithContext(c.Request.Context(), ctxLogger))
		}

		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		start := time.Now()

		ctxLogger.Info("request started",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		ctxLogger.Log(c.Request.Context(), level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

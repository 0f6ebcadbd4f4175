package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"ticket-ledger/internal/metrics"
)

// Logger logs every request through slog and, when prom is non-nil,
// records its count and latency.
func Logger(prom *metrics.Prometheus) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		// Use the route pattern for the path label to avoid high cardinality.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if prom != nil {
			prom.ObserveHTTP(c.Request.Method, route, status, elapsed)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"duration", elapsed,
			"client_ip", c.ClientIP(),
		)
	}
}

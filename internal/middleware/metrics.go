package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshmart/grocery-api/internal/metrics"
)

// MetricsMiddleware records request count, latency and in-flight requests,
// labelled by route template. The /metrics endpoint itself is skipped.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		done := metrics.RequestStarted()
		defer done()

		c.Next()

		metrics.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "FreshMart API"
	serviceVersion = "1.0.0"
	probeTimeout   = 2 * time.Second
)

// Root is the handler for GET /.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "FreshMart API is running!",
		"version": serviceVersion,
		"status":  "healthy",
	})
}

// Health is the handler for GET /health. It reports 503 when the store
// cannot be reached.
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"service":  serviceName,
			"version":  serviceVersion,
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  serviceName,
		"version":  serviceVersion,
		"database": "connected",
	})
}

// Ready is the handler for GET /ready.
func (h *Handlers) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service not ready"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

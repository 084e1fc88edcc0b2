package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/middleware"
	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/service"
	"github.com/freshmart/grocery-api/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Auth      *service.Authenticator
	Addresses *service.AddressBook
	Catalog   *service.Catalog
	Orders    *service.OrderWorkflow
	Store     store.Store // health and readiness probes
	Log       *zap.Logger
}

// statusFor maps a business failure to its HTTP status.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalidCredentials, service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindAccountDisabled:
		return http.StatusForbidden
	case service.KindNotFound, service.KindProductNotFound:
		return http.StatusNotFound
	case service.KindDuplicateIdentity,
		service.KindInvalidInput,
		service.KindInvalidState,
		service.KindProductUnavailable,
		service.KindInsufficientStock:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Unexpected errors are logged and
// hidden behind a generic message.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := statusFor(svcErr.Kind)
		if status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		c.JSON(status, gin.H{"error": svcErr.Error()})
		return
	}

	_ = c.Error(err)
	h.Log.Error("request failed",
		zap.String("request_id", middleware.RequestID(c)),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// paramID parses a positive integer path parameter. It writes the 400
// response itself when the value is invalid.
func paramID(c *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + label + " ID"})
		return 0, false
	}
	return id, true
}

// currentUser reads the user set by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Header("WWW-Authenticate", "Bearer")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
	}
	return user, ok
}

// Package middleware holds the gin middleware shared by every route.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/models"
	"github.com/freshmart/grocery-api/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserKey   = "user"
	ContextUserIDKey = "userID"
)

// TokenResolver turns a bearer token into a user.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (models.User, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header and
// stores the resolved user in the context. Every token problem gets the same
// 401 response.
func AuthMiddleware(resolver TokenResolver, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		// 2. --- Resolve Token ---
		user, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if service.KindOf(err) == service.KindUnauthenticated {
				unauthorized(c)
				return
			}
			log.Error("resolve bearer token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// 3. --- Success ---
		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, exists := c.Get(ContextUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

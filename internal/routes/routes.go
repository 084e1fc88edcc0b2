package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/handlers"
	"github.com/freshmart/grocery-api/internal/metrics"
	"github.com/freshmart/grocery-api/internal/middleware"
)

// Options configures the router around the handlers.
type Options struct {
	AllowedOrigins []string
	// AuthLimiter throttles the public /auth endpoints; nil disables it.
	AuthLimiter *middleware.RateLimiter
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.New()

	// --- Global Middleware ---
	router.Use(
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			h.Log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}),
		middleware.RequestLogger(h.Log),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(opts.AllowedOrigins),
	)

	// --- Probes ---
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	requireAuth := middleware.AuthMiddleware(h.Auth, h.Log)

	// --- Auth Routes ---
	authGroup := router.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(opts.AuthLimiter.Handler())
	}
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", requireAuth, h.Me)
	}

	// --- Catalog Routes (Public) ---
	router.GET("/categories", h.ListCategories)
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/category/:name", h.ListProductsByCategory)
	}

	// --- Address Routes (Login Required) ---
	addresses := router.Group("/addresses", requireAuth)
	{
		addresses.GET("", h.ListAddresses)
		addresses.POST("", h.CreateAddress)
		addresses.GET("/:id", h.GetAddress)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
		addresses.POST("/:id/set-default", h.SetDefaultAddress)
	}

	// --- Order Routes (Login Required) ---
	orders := router.Group("/orders", requireAuth)
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/cancel", h.CancelOrder)
	}

	return router
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/auth"
	"github.com/freshmart/grocery-api/internal/config"
	"github.com/freshmart/grocery-api/internal/database"
	"github.com/freshmart/grocery-api/internal/handlers"
	"github.com/freshmart/grocery-api/internal/logger"
	"github.com/freshmart/grocery-api/internal/middleware"
	"github.com/freshmart/grocery-api/internal/routes"
	"github.com/freshmart/grocery-api/internal/seed"
	"github.com/freshmart/grocery-api/internal/service"
)

func main() {
	// 0. --- Load Configuration (.env, optional YAML, environment) ---
	cfg := config.MustLoad()

	logg := logger.New(cfg.Logger)
	defer logg.Sync() //nolint:errcheck

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. --- Database Connection ---
	st, err := database.OpenStore(ctx, cfg.Database, logg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Database.Driver == config.DriverMemory {
		if _, err := seed.Run(ctx, st, cfg.Auth.BcryptCost, logg); err != nil {
			return err
		}
	}

	// 2. --- Services ---
	tokens := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.TokenTTL())
	app := &handlers.Handlers{
		Auth:      service.NewAuthenticator(st, tokens, cfg.Auth.BcryptCost, logg),
		Addresses: service.NewAddressBook(st, logg),
		Catalog:   service.NewCatalog(st),
		Orders:    service.NewOrderWorkflow(st, service.DefaultPricing(), logg),
		Store:     st,
		Log:       logg,
	}

	// 3. --- Rate Limiting ---
	limiter := middleware.NewRateLimiter(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst, logg)
	limiter.StartCleanup(time.Minute, ctx.Done())

	// 4. --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AuthLimiter:    limiter,
	})

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		ErrorLog:     zap.NewStdLog(logg),
	}

	// 5. --- Start Server ---
	serverErr := make(chan error, 1)
	go func() {
		logg.Info("starting FreshMart API server", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	// 6. --- Graceful Shutdown ---
	logg.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logg.Info("server stopped")
	return nil
}

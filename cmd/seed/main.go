// Command seed applies the database migrations and loads the demo accounts
// and sample catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/config"
	"github.com/freshmart/grocery-api/internal/database"
	"github.com/freshmart/grocery-api/internal/logger"
	"github.com/freshmart/grocery-api/internal/seed"
)

func main() {
	cfg := config.MustLoad()
	logg := logger.New(cfg.Logger)
	defer logg.Sync() //nolint:errcheck

	if err := run(cfg, logg); err != nil {
		logg.Fatal("seed failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	if cfg.Database.Driver == config.DriverMemory {
		return errors.New("seeding needs a SQL database, set DB_DRIVER to mysql or postgres")
	}
	cfg.Database.AutoMigrate = true

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := database.OpenStore(ctx, cfg.Database, logg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	loaded, err := seed.Run(ctx, st, cfg.Auth.BcryptCost, logg)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	if loaded {
		logg.Info("test credentials",
			zap.String("admin", seed.AdminUsername+" / "+seed.AdminPassword),
			zap.String("customer", seed.CustomerUsername+" / "+seed.CustomerPassword),
		)
	}
	return nil
}

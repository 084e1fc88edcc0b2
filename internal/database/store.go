package database

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/freshmart/grocery-api/internal/config"
	"github.com/freshmart/grocery-api/internal/store"
	"github.com/freshmart/grocery-api/internal/store/memory"
	"github.com/freshmart/grocery-api/internal/store/sqlstore"
)

// OpenStore returns the store selected by cfg.Driver. SQL databases are
// migrated before the pool is opened when cfg.AutoMigrate is set. The memory
// driver starts empty.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (store.Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	if cfg.AutoMigrate {
		if err := Migrate(cfg.Driver, cfg.URL); err != nil {
			return nil, err
		}
		log.Info("database migrations applied", zap.String("driver", cfg.Driver))
	}

	db, err := Open(ctx, cfg.Driver, cfg.URL, PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("database connection established", zap.String("driver", cfg.Driver))
	return sqlstore.New(db), nil
}

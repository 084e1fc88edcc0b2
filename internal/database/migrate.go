package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/freshmart/grocery-api/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies every pending migration for driver. It uses a dedicated
// connection because closing the migrator closes the underlying pool.
func Migrate(driver, dsn string) error {
	dsn, err := normalizeDSN(driver, dsn)
	if err != nil {
		return err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}

	var target migratedb.Driver
	switch driver {
	case config.DriverMySQL:
		target, err = migratemysql.WithInstance(db, &migratemysql.Config{})
	case config.DriverPostgres:
		target, err = migratepostgres.WithInstance(db, &migratepostgres.Config{})
	}
	if err != nil {
		db.Close()
		return fmt.Errorf("init migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driver, target)
	if err != nil {
		db.Close()
		return fmt.Errorf("init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

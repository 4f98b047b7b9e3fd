package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/trust_ledger/migrations"
	migrate "github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Driver names accepted by Migrate.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Migrate applies every pending "up" migration for driver on db.
// sourceURL selects an external golang-migrate source; empty uses the embedded schema.
func Migrate(db *sql.DB, driver, sourceURL string, logger *slog.Logger) error {
	var (
		instance migratedb.Driver
		err      error
		dbName   string
	)
	switch driver {
	case DriverPostgres:
		instance, err = postgres.WithInstance(db, &postgres.Config{})
		dbName = "postgres"
	case DriverSQLite:
		instance, err = sqlite3.WithInstance(db, &sqlite3.Config{})
		dbName = "sqlite3"
	default:
		return fmt.Errorf("unsupported migration driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("could not create %s driver instance for migrations: %w", driver, err)
	}

	var m *migrate.Migrate
	if sourceURL == "" {
		source, err := iofs.New(migrations.FS, driver)
		if err != nil {
			return fmt.Errorf("could not open embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", source, dbName, instance)
		if err != nil {
			return fmt.Errorf("could not create migrate instance: %w", err)
		}
	} else {
		m, err = migrate.NewWithDatabaseInstance(sourceURL, dbName, instance)
		if err != nil {
			return fmt.Errorf("could not create migrate instance: %w", err)
		}
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"ledger/internal/log"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationsFS holds the ledger schema: users, expenses, budgets and income
// with amounts in integer cents, plus the indexes used by the monthly
// report and budget lookups.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// RunMigrations brings the ledger file at dbPath up to the latest schema
// version. A fresh file gets all tables; an existing ledger keeps its rows
// and is left untouched when already current.
func RunMigrations(dbPath string) error {
	// The migrate driver closes its connection on m.Close, so it must not
	// share the repository's *sql.DB.
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		return nil
	case err != nil:
		return fmt.Errorf("apply ledger schema: %w", err)
	}

	version, _, verr := m.Version()
	if verr == nil {
		slog.Info("Ledger schema migrated",
			log.FieldComponent, log.ComponentStorage,
			log.FieldOperation, log.OpStartup,
			log.FieldPath, dbPath,
			"version", version)
	}
	return nil
}

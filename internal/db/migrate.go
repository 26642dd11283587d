package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/diewo77/workshop-quotes/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// Registers the postgres database driver for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Tables that must exist once migrations have run.
var requiredTables = []string{"quotes", "company_settings"}

// Migrate brings the schema up to date. Versioned SQL migrations run when
// sqlMigrations is set and the driver is postgres; otherwise gorm AutoMigrate
// creates what is missing.
func Migrate(conn *gorm.DB, cfg config.DatabaseConfig, sqlMigrations bool, log logrus.FieldLogger) error {
	if sqlMigrations && cfg.Driver == config.DriverPostgres {
		log.Info("running SQL migrations")
		if err := RunSQLMigrations(ToURLDSN(DSN(cfg))); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		if err := AutoMigrate(conn); err != nil {
			return err
		}
	}

	for _, table := range requiredTables {
		if !conn.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}

// AutoMigrate creates or alters tables from the models.
func AutoMigrate(conn *gorm.DB) error {
	for _, m := range []interface{}{&models.Quote{}, &models.CompanySettings{}} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// RunSQLMigrations applies the embedded migrations to a postgres URL DSN.
func RunSQLMigrations(urlDSN string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, urlDSN)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Package db opens the quote store and keeps its schema current.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/workshop-quotes/internal/config"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned when DATABASE_URL (or the service key) is missing.
var ErrNotConfigured = errors.New("data store not configured")

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// DSN returns the driver DSN for cfg: normalized, with the service key as password.
func DSN(cfg config.DatabaseConfig) string {
	if cfg.Driver == config.DriverSQLite {
		return cfg.URL
	}
	return WithServiceKey(NormalizeDSN(cfg.URL), cfg.ServiceKey)
}

// Open connects to the configured store, retrying while the server comes up.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}
	dsn := DSN(cfg)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{Logger: newGormLogger(log, cfg.Debug)}

	var conn *gorm.DB
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			err = conn.WithContext(ctx).Exec("SELECT 1").Error
		}
		if err == nil {
			break
		}
		log.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("database not ready, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	log.WithFields(logrus.Fields{"driver": cfg.Driver, "dsn": MaskDSN(dsn)}).Info("database connected")
	return conn, nil
}

// newGormLogger routes gorm's own logging through logrus.
func newGormLogger(log logrus.FieldLogger, debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(gormWriter{log}, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

type gormWriter struct{ log logrus.FieldLogger }

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.WithField("component", "gorm").Infof(format, args...)
}

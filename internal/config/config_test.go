package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "DATABASE_SERVICE_KEY", "WEBHOOK_TIMEOUT", "QUOTES_STRICT_TOTALS", "STORAGE_PUBLIC_BASE_URL", "PDF_TIMEZONE"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.False(t, cfg.Database.Configured())
	assert.Equal(t, 8*time.Second, cfg.Webhook.Timeout)
	assert.True(t, cfg.App.StrictTotals)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "quotes.db")
	t.Setenv("WEBHOOK_TIMEOUT", "3")
	t.Setenv("QUOTES_STRICT_TOTALS", "false")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "http://localhost:8080/")
	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, cfg.Database.Configured())
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.False(t, cfg.App.StrictTotals)
	assert.Equal(t, "http://localhost:8080", cfg.Storage.PublicBaseURL)
}

func TestDatabaseConfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want bool
	}{
		{"postgres complete", DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u@h/db", ServiceKey: "k"}, true},
		{"postgres without key", DatabaseConfig{Driver: DriverPostgres, URL: "postgres://u@h/db"}, false},
		{"postgres without url", DatabaseConfig{Driver: DriverPostgres, ServiceKey: "k"}, false},
		{"sqlite path", DatabaseConfig{Driver: DriverSQLite, URL: "file.db"}, true},
		{"sqlite empty", DatabaseConfig{Driver: DriverSQLite}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Configured())
		})
	}
}

func TestNewLogger(t *testing.T) {
	log := NewLogger(AppConfig{Env: "production", LogLevel: "debug"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	_, isJSON := log.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	log = NewLogger(AppConfig{Env: "development", LogLevel: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

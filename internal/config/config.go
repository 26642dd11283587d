// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. It is built once at startup
// and handed to every component that needs a piece of it.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Settings SettingsConfig
	Webhook  WebhookConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the data store connection settings.
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	URL        string
	ServiceKey string
	Debug      bool
}

// Configured reports whether enough settings are present to open a connection.
// Postgres needs both the URL and the service key; sqlite only a file path.
func (d DatabaseConfig) Configured() bool {
	if d.Driver == DriverSQLite {
		return d.URL != ""
	}
	return d.URL != "" && d.ServiceKey != ""
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StorageConfig holds the object storage used for the company logo.
type StorageConfig struct {
	Provider        string // gcs, local or empty
	Bucket          string
	LocalDir        string
	PublicBaseURL   string
	CredentialsJSON string
}

// Storage providers.
const (
	StorageGCS   = "gcs"
	StorageLocal = "local"
)

// SettingsConfig selects the company settings row.
type SettingsConfig struct {
	RecordID string // optional; most recent row when empty
}

// WebhookConfig holds the outbound notification endpoint.
type WebhookConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env          string
	Migrations   bool
	LogLevel     string
	StrictTotals bool
	Timezone     string
}

// IsProduction reports whether APP_ENV is production.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			URL:        getEnv("DATABASE_URL", ""),
			ServiceKey: getEnv("DATABASE_SERVICE_KEY", ""),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		Storage: StorageConfig{
			Provider:        strings.ToLower(getEnv("STORAGE_PROVIDER", "")),
			Bucket:          getEnv("STORAGE_BUCKET", "company-logos"),
			LocalDir:        getEnv("STORAGE_LOCAL_DIR", "uploads"),
			PublicBaseURL:   strings.TrimRight(getEnv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			CredentialsJSON: getEnv("GCS_CREDENTIALS_JSON", ""),
		},
		Settings: SettingsConfig{
			RecordID: getEnv("SETTINGS_RECORD_ID", ""),
		},
		Webhook: WebhookConfig{
			URL:     getEnv("WEBHOOK_URL", ""),
			Token:   getEnv("WEBHOOK_TOKEN", ""),
			Timeout: getEnvDuration("WEBHOOK_TIMEOUT", 8*time.Second),
		},
		App: AppConfig{
			Env:          getEnv("APP_ENV", "development"),
			Migrations:   getEnvBool("MIGRATIONS", false),
			LogLevel:     getEnv("LOG_LEVEL", "info"),
			StrictTotals: getEnvBool("QUOTES_STRICT_TOTALS", true),
			Timezone:     getEnv("PDF_TIMEZONE", "America/Sao_Paulo"),
		},
	}
}

// getEnv returns the trimmed value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts Go durations ("5s") or plain seconds ("5").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if s, err := strconv.Atoi(value); err == nil {
		return time.Duration(s) * time.Second
	}
	return defaultValue
}

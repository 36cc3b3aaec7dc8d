package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"spfs/database"
	"spfs/domain/sharepoint"
	"spfs/logging"
)

// AppConfig holds application-wide system configuration.
// SharePoint credentials are loaded separately by spauth.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	Database    *database.Config
	Logging     *logging.Config
	Library     *LibraryConfig
	Journal     *JournalConfig
}

// LibraryConfig selects the document library exposed by the gateway.
type LibraryConfig struct {
	Name            string
	DefaultMimeType string
	ReadOnly        bool
}

// JournalConfig controls retention of the operation journal.
// A zero Retention keeps every entry.
type JournalConfig struct {
	Retention     time.Duration
	PruneInterval time.Duration
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath: getEnvWithDefault("HTTP_LOG_PATH", ""),
		Database:    LoadDatabaseConfigFromEnv(),
		Logging:     LoadLoggingConfigFromEnv(),
		Library:     LoadLibraryConfigFromEnv(),
		Journal:     LoadJournalConfigFromEnv(),
	}
}

// LoadJournalConfigFromEnv loads journal retention settings from environment variables.
func LoadJournalConfigFromEnv() *JournalConfig {
	return &JournalConfig{
		Retention:     getEnvDurationWithDefault("JOURNAL_RETENTION", 0),
		PruneInterval: getEnvDurationWithDefault("JOURNAL_PRUNE_INTERVAL", time.Hour),
	}
}

// LoadLibraryConfigFromEnv loads document library settings from environment variables.
func LoadLibraryConfigFromEnv() *LibraryConfig {
	return &LibraryConfig{
		Name:            strings.Trim(getEnvWithDefault("SP_LIBRARY", sharepoint.DefaultLibrary), "/"),
		DefaultMimeType: getEnvWithDefault("SP_DEFAULT_MIME", "application/octet-stream"),
		ReadOnly:        getEnvBoolWithDefault("SP_READ_ONLY", false),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./spfs.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
		StrictMode:        getEnvBoolWithDefault("DB_STRICT_MODE", true),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

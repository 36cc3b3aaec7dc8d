package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DB_PATH", "LOG_LEVEL", "SP_LIBRARY", "SP_DEFAULT_MIME", "SP_READ_ONLY", "JOURNAL_RETENTION", "JOURNAL_PRUNE_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "./spfs.db", cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "Shared Documents", cfg.Library.Name)
	assert.Equal(t, "application/octet-stream", cfg.Library.DefaultMimeType)
	assert.False(t, cfg.Library.ReadOnly)
	assert.Zero(t, cfg.Journal.Retention)
	assert.Equal(t, time.Hour, cfg.Journal.PruneInterval)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_ENABLE_WAL", "off")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "30s")
	t.Setenv("SP_LIBRARY", "/Team Files/")
	t.Setenv("SP_READ_ONLY", "yes")
	t.Setenv("JOURNAL_RETENTION", "720h")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Database.EnableWAL)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnMaxIdleTime)
	assert.Equal(t, "Team Files", cfg.Library.Name)
	assert.True(t, cfg.Library.ReadOnly)
	assert.Equal(t, 30*24*time.Hour, cfg.Journal.Retention)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"1", false, true},
		{" YES ", false, true},
		{"off", true, false},
		{"n", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBool(tt.in, tt.def))
		})
	}
}

func TestGetEnvIntWithDefault_InvalidFallsBack(t *testing.T) {
	t.Setenv("DB_BUSY_TIMEOUT_MS", "soon")
	assert.Equal(t, 5000, getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000))
}

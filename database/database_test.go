package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spfs/logging"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Path:              filepath.Join(t.TempDir(), "journal.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}
}

func quietLogger() *logging.Logger {
	return logging.NewLogger(&logging.Config{Level: "error", Format: "text", Output: "discard"})
}

func TestNew_AppliesMigrations(t *testing.T) {
	cfg := testConfig(t)

	db, err := New(cfg, quietLogger())
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.ReadDB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'operations'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "operations", name)

	var applied int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestNew_ReopenIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, quietLogger())
	require.NoError(t, err)
	require.NoError(t, first.Close())
	assert.True(t, checkDatabaseExists(cfg.Path))

	second, err := New(cfg, quietLogger())
	require.NoError(t, err)
	defer second.Close()

	var applied int
	require.NoError(t, second.ReadDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = db.WithTx(context.Background(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec("INSERT INTO operations (op, path, status) VALUES ('write', '/a.txt', 'ok')")
		require.NoError(t, execErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM operations").Scan(&count))
	assert.Zero(t, count)
}

func TestHealth_ReportsBothPools(t *testing.T) {
	db, err := New(testConfig(t), quietLogger())
	require.NoError(t, err)
	defer db.Close()

	stats, err := db.Health()
	require.NoError(t, err)
	assert.Equal(t, db.config.Path, stats.Path)
	assert.Equal(t, 4, stats.ReadPool.MaxOpenConns)
	assert.Equal(t, 1, stats.WritePool.MaxOpenConns)
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(Config{Path: "/tmp/j.db", BusyTimeoutMs: 250, EnableWAL: true})

	assert.True(t, strings.HasPrefix(dsn, "file:/tmp/j.db?_busy_timeout=250&"))
	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.NotContains(t, dsn, "_foreign_keys")
}

func TestParseMigrationName(t *testing.T) {
	m, err := parseMigrationName("12_add_index.sql")
	require.NoError(t, err)
	assert.Equal(t, int64(12), m.Version)
	assert.Equal(t, "12_add_index", m.Name)

	_, err = parseMigrationName("x_bad.sql")
	assert.ErrorContains(t, err, "failed to parse version")
}

func TestLoadMigrations(t *testing.T) {
	t.Run("sorted by version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/10_later.sql": {Data: []byte("SELECT 10;")},
			"m/2_second.sql": {Data: []byte("SELECT 2;")},
		}
		migrations, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, migrations, 2)
		assert.Equal(t, int64(2), migrations[0].Version)
		assert.Equal(t, "10_later", migrations[1].Name)
	})

	t.Run("duplicate versions", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/1_a.sql": {Data: []byte("SELECT 1;")},
			"m/1_b.sql": {Data: []byte("SELECT 1;")},
		}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "duplicate migration version 1")
	})

	t.Run("malformed name", func(t *testing.T) {
		fsys := fstest.MapFS{"m/init.sql": {Data: []byte("SELECT 1;")}}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "malformed migration filename")
	})

	t.Run("non sql file", func(t *testing.T) {
		fsys := fstest.MapFS{"m/README.md": {Data: []byte("x")}}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "non-migration file")
	})

	t.Run("embedded set", func(t *testing.T) {
		migrations, err := getMigrations()
		require.NoError(t, err)
		require.NotEmpty(t, migrations)
		assert.Equal(t, "1_operations", migrations[0].Name)
	})
}

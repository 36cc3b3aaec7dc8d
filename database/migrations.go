package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migration is one versioned schema file, named "<version>_<name>.sql".
type Migration struct {
	Version int64
	Name    string
	SQL     string
}

func getMigrations() ([]Migration, error) {
	return loadMigrations(migrationFiles, "migrations")
}

// loadMigrations reads the *.sql files in dir, ordered by version.
func loadMigrations(fsys fs.ReadFileFS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	seen := make(map[int64]string, len(entries))
	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		m, err := parseMigrationName(entry.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[m.Version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d: %s and %s", m.Version, prev, m.Name)
		}
		seen[m.Version] = m.Name

		content, err := fsys.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}
		m.SQL = string(content)
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// parseMigrationName splits "1_operations.sql" into version 1 and name "1_operations".
func parseMigrationName(file string) (Migration, error) {
	if !strings.HasSuffix(file, ".sql") {
		return Migration{}, fmt.Errorf("non-migration file found in migrations path: %s", file)
	}
	name := strings.TrimSuffix(file, ".sql")

	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return Migration{}, fmt.Errorf("malformed migration filename: %s", file)
	}
	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to parse version from schema file (%s): %w", file, err)
	}
	return Migration{Version: version, Name: name}, nil
}

// appliedMigrations returns the versions already recorded in schema_migrations.
func (d *Database) appliedMigrations(ctx context.Context) (map[int64]bool, error) {
	if _, err := d.write.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := d.read.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// runMigrations applies every pending migration, each in its own transaction.
func (d *Database) runMigrations(ctx context.Context) error {
	migrations, err := getMigrations()
	if err != nil {
		return err
	}
	applied, err := d.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	pending := 0
	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		d.logger.Database("Applying migration", "version", m.Version, "name", m.Name)

		err := d.WithTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return fmt.Errorf("failed to execute migration %s: %w", m.Name, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		pending++
	}

	d.logger.Database("Journal schema up to date",
		"applied", pending,
		"total", len(migrations))
	return nil
}

// checkDatabaseExists reports whether a non-empty database file is already on disk
func checkDatabaseExists(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	stat, err := os.Stat(abs)
	return err == nil && stat.Size() > 0
}

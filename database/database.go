package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"spfs/logging"

	_ "modernc.org/sqlite"
)

// Config holds database configuration
type Config struct {
	Path              string        `env:"DB_PATH" default:"./spfs.db"`
	MaxOpenConns      int           `env:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns      int           `env:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime   time.Duration `env:"DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime   time.Duration `env:"DB_CONN_MAX_IDLE_TIME" default:"15m"`
	BusyTimeoutMs     int           `env:"DB_BUSY_TIMEOUT_MS" default:"5000"`
	EnableForeignKeys bool          `env:"DB_ENABLE_FOREIGN_KEYS" default:"true"`
	EnableWAL         bool          `env:"DB_ENABLE_WAL" default:"true"`
	StrictMode        bool          `env:"DB_STRICT_MODE" default:"true"`
}

// PoolStats is the health view of one connection pool.
type PoolStats struct {
	OpenConnections   int    `json:"open_connections"`
	InUse             int    `json:"in_use"`
	Idle              int    `json:"idle"`
	WaitCount         int64  `json:"wait_count"`
	WaitDuration      string `json:"wait_duration"`
	MaxIdleClosed     int64  `json:"max_idle_closed"`
	MaxLifetimeClosed int64  `json:"max_lifetime_closed"`
	MaxOpenConns      int    `json:"max_open_conns"`
}

// HealthStats reports both pools of the journal database.
type HealthStats struct {
	Path      string    `json:"path"`
	ReadPool  PoolStats `json:"read_pool"`
	WritePool PoolStats `json:"write_pool"`
}

// pool is one role-specific handle onto the same SQLite file.
type pool struct {
	role    string
	db      *sql.DB
	maxOpen int
}

func (p pool) stats() PoolStats {
	s := p.db.Stats()
	return PoolStats{
		OpenConnections:   s.OpenConnections,
		InUse:             s.InUse,
		Idle:              s.Idle,
		WaitCount:         s.WaitCount,
		WaitDuration:      s.WaitDuration.String(),
		MaxIdleClosed:     s.MaxIdleClosed,
		MaxLifetimeClosed: s.MaxLifetimeClosed,
		MaxOpenConns:      p.maxOpen,
	}
}

// Database holds the operation journal store. Reads share a pool; writes go
// through a single connection so SQLite never sees concurrent writers.
type Database struct {
	read   pool
	write  pool
	config Config
	logger *logging.Logger
}

// New opens the journal database and applies pending migrations.
func New(config Config, logger *logging.Logger) (*Database, error) {
	existed := checkDatabaseExists(config.Path)
	dsn := buildDSN(config)

	logger.Database("Opening journal database",
		"path", config.Path,
		"exists", existed,
		"read_max_open_conns", config.MaxOpenConns)

	read, err := openPool(dsn, "read", config.MaxOpenConns, config.MaxIdleConns, config)
	if err != nil {
		return nil, err
	}
	write, err := openPool(dsn, "write", 1, 1, config)
	if err != nil {
		read.db.Close()
		return nil, err
	}

	d := &Database{read: read, write: write, config: config, logger: logger}

	if err := d.initialize(); err != nil {
		d.closePools()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := d.runMigrations(context.Background()); err != nil {
		d.closePools()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	logger.Database("Journal database ready",
		"path", config.Path,
		"existed", existed,
		"wal_mode", config.EnableWAL)

	return d, nil
}

func openPool(dsn, role string, maxOpen, maxIdle int, config Config) (pool, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return pool{}, fmt.Errorf("failed to open %s database: %w", role, err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
	return pool{role: role, db: db, maxOpen: maxOpen}, nil
}

// buildDSN constructs the SQLite data source name
func buildDSN(config Config) string {
	params := []string{fmt.Sprintf("_busy_timeout=%d", config.BusyTimeoutMs)}
	if config.EnableWAL {
		params = append(params, "_journal_mode=WAL")
	}
	if config.EnableForeignKeys {
		params = append(params, "_foreign_keys=on")
	}
	params = append(params,
		"_cache_size=-64000", // 64MB
		"_temp_store=memory",
		"_synchronous=normal",
		"_wal_autocheckpoint=1000",
	)
	return "file:" + config.Path + "?" + strings.Join(params, "&")
}

func (d *Database) pools() []pool {
	return []pool{d.read, d.write}
}

// initialize pings both pools and applies the per-connection pragmas
func (d *Database) initialize() error {
	for _, p := range d.pools() {
		if err := p.db.Ping(); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", p.role, err)
		}

		if d.config.StrictMode {
			if _, err := p.db.Exec("PRAGMA strict=ON"); err != nil {
				d.logger.Warn("Failed to enable strict mode", "connection", p.role, "error", err)
			}
		}

		if _, err := p.db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", d.config.BusyTimeoutMs)); err != nil {
			return fmt.Errorf("failed to set busy_timeout on %s connection: %w", p.role, err)
		}

		if !d.config.EnableWAL {
			continue
		}
		var mode string
		if err := p.db.QueryRow("PRAGMA journal_mode=WAL").Scan(&mode); err != nil {
			return fmt.Errorf("failed to enable WAL mode on %s connection: %w", p.role, err)
		}
		if mode != "wal" {
			d.logger.Warn("WAL mode not enabled", "connection", p.role, "journal_mode", mode)
		}
	}

	d.logPoolStats()
	return nil
}

// ReadDB returns the pooled read connection
func (d *Database) ReadDB() *sql.DB {
	return d.read.db
}

// WriteDB returns the single write connection
func (d *Database) WriteDB() *sql.DB {
	return d.write.db
}

// Close checkpoints the WAL and closes both pools
func (d *Database) Close() error {
	d.logger.Database("Closing journal database")

	if d.config.EnableWAL {
		if _, err := d.write.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
			d.logger.Warn("Failed to checkpoint WAL", "error", err)
		}
	}
	return d.closePools()
}

func (d *Database) closePools() error {
	var errs []error
	for _, p := range d.pools() {
		if err := p.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s connection: %w", p.role, err))
		}
	}
	return errors.Join(errs...)
}

// Health pings both pools and returns their statistics
func (d *Database) Health() (*HealthStats, error) {
	for _, p := range d.pools() {
		if err := p.db.Ping(); err != nil {
			return nil, fmt.Errorf("%s database ping failed: %w", p.role, err)
		}
	}
	return &HealthStats{
		Path:      d.config.Path,
		ReadPool:  d.read.stats(),
		WritePool: d.write.stats(),
	}, nil
}

func (d *Database) logPoolStats() {
	for _, p := range d.pools() {
		s := p.stats()
		d.logger.Database("Connection pool stats",
			"connection", p.role,
			"open_connections", s.OpenConnections,
			"in_use", s.InUse,
			"idle", s.Idle)
	}
}

// WithTx runs fn inside a transaction on the write connection
func (d *Database) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := d.write.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			d.logger.Error("Failed to rollback transaction", "error", rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

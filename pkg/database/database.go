// Package database provides document store connection management with lifecycle coordination.
// PostgreSQL is reached through the pgx stdlib driver; SQLite through modernc.org/sqlite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/JaimeStill/roster/pkg/lifecycle"
	"github.com/JaimeStill/roster/pkg/query"
)

// System manages database connections and lifecycle coordination.
type System interface {
	// Connection returns the underlying database connection pool.
	Connection() *sql.DB
	// Dialect returns the SQL dialect of the configured driver.
	Dialect() query.Dialect
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	conn        *sql.DB
	dialect     query.Dialect
	cfg         *Config
	migrations  fs.FS
	logger      *slog.Logger
	connTimeout time.Duration
}

// New creates a database system with the given configuration.
// It calls sql.Open to validate the DSN and configure pool parameters,
// but does not establish a connection until Start is called.
// When migrations is non-nil and auto-migrate is enabled, pending migrations
// from it are applied during startup.
func New(cfg *Config, logger *slog.Logger, migrations fs.FS) (System, error) {
	dialect, err := query.DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName(cfg.Driver), cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// single writer; WAL and busy_timeout cover readers
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		conn:        db,
		dialect:     dialect,
		cfg:         cfg,
		migrations:  migrations,
		logger:      logger.With("system", "database", "driver", cfg.Driver),
		connTimeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.conn
}

func (d *database) Dialect() query.Dialect {
	return d.dialect
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	d.logger.Info("starting database connection")

	lc.OnStartup(func() error {
		pingCtx, cancel := context.WithTimeout(lc.Context(), d.connTimeout)
		defer cancel()

		if err := d.conn.PingContext(pingCtx); err != nil {
			d.logger.Error("database ping failed", "error", err)
			return fmt.Errorf("%w: %w", ErrNotReady, err)
		}

		if d.migrations != nil && d.cfg.Migrations() {
			version, err := Migrate(d.cfg, d.migrations)
			if err != nil {
				d.logger.Error("database migration failed", "error", err)
				return err
			}
			d.logger.Info("database migrations applied", "version", version)
		}

		d.logger.Info("database connection established")
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.logger.Info("closing database connection")

		if err := d.conn.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}

		d.logger.Info("database connection closed")
	})

	return nil
}

func driverName(driver string) string {
	if driver == DriverPostgres {
		return "pgx"
	}
	return driver
}

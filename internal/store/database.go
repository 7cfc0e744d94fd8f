// Package store archives join runs in PostgreSQL.
package store

import (
	"context"
	"embed"
	"io/fs"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"

	"github.com/fortuna/acbscout/internal/logging"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Database is the archive connection.
type Database struct {
	conn   *sqlx.DB
	logger *zap.Logger
}

// NewDatabase opens and pings a PostgreSQL connection.
func NewDatabase(ctx context.Context, dsn string, logger *zap.Logger) (*Database, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	return &Database{conn: db, logger: logging.OrNop(logger).Named("store")}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying connection pool.
func (db *Database) DB() *sqlx.DB {
	return db.conn
}

// HealthCheck performs a health check on the database
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Migrations lists the embedded migration files in the order they apply.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return nil, errors.Wrap(err, "list migrations")
	}
	sort.Strings(names)
	return names, nil
}

// RunMigrations applies every embedded migration not yet recorded in
// schema_migrations, each in its own transaction.
func (db *Database) RunMigrations(ctx context.Context) error {
	const createTracking = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := db.conn.ExecContext(ctx, createTracking); err != nil {
		return errors.Wrap(err, "create migrations table")
	}

	names, err := Migrations()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := db.runMigration(ctx, name); err != nil {
			return errors.Wrapf(err, "migration %s", name)
		}
	}
	return nil
}

func (db *Database) runMigration(ctx context.Context, name string) error {
	var exists bool
	if err := db.conn.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", name); err != nil {
		return err
	}
	if exists {
		db.logger.Debug("migration already applied", zap.String("version", name))
		return nil
	}

	content, err := migrationFS.ReadFile(name)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	db.logger.Info("migration applied", zap.String("version", name))
	return nil
}

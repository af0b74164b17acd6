// Package database opens the entity store and implements the repositories
// over gorm. PostgreSQL is used in production, SQLite locally and in tests.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// ErrUnsupportedURL is returned for database URLs with an unknown scheme
var ErrUnsupportedURL = errors.New("unsupported database url: expected postgres://, sqlite: or file:")

// Options configures Open
type Options struct {
	// URL selects the backend: postgres:// or postgresql:// for PostgreSQL,
	// sqlite:<path> or file:<path> for SQLite
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	Logger       logger.Interface
}

// Open connects to the database described by opts.URL
func Open(ctx context.Context, opts Options) (*gorm.DB, error) {
	dialector, isSQLite, err := dialectorFor(opts.URL)
	if err != nil {
		return nil, err
	}

	cfg := &gorm.Config{Logger: opts.Logger}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	if isSQLite {
		// SQLite benefits from a single writer connection, and an in-memory
		// database only exists on the connection that created it
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)

		for _, pragma := range []string{
			"PRAGMA foreign_keys = ON",
			"PRAGMA busy_timeout = 5000",
		} {
			if err := db.WithContext(ctx).Exec(pragma).Error; err != nil {
				_ = sqlDB.Close()
				return nil, fmt.Errorf("failed to run %q: %w", pragma, err)
			}
		}
	} else {
		if opts.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

func dialectorFor(url string) (gorm.Dialector, bool, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), false, nil
	case strings.HasPrefix(url, "sqlite:"):
		return sqliteDialector(strings.TrimPrefix(url, "sqlite:")), true, nil
	case strings.HasPrefix(url, "file:"):
		return sqliteDialector(url), true, nil
	default:
		return nil, false, ErrUnsupportedURL
	}
}

// sqliteDialector uses the pure-Go modernc driver registered as "sqlite"
func sqliteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn})
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the connection, used by the health endpoint
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

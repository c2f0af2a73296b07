// Package database selects a storage backend from configuration, opens it
// and applies its embedded migrations with goose.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/platform/postgres"
	"github.com/phrazzld/tatame-api/internal/platform/sqlite"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Backend bundles what the application needs to know about one database
// engine.
type Backend struct {
	Name         string
	GooseDialect string
	Dialect      sqlstore.Dialect
	Migrations   fs.FS

	open func(ctx context.Context, url string) (*sql.DB, error)
}

// ForDriver returns the Backend for the named driver.
func ForDriver(driver string) (Backend, error) {
	switch driver {
	case DriverPostgres:
		return Backend{
			Name:         DriverPostgres,
			GooseDialect: postgres.GooseDialect,
			Dialect:      postgres.Dialect{},
			Migrations:   postgres.Migrations,
			open:         postgres.Open,
		}, nil
	case DriverSQLite:
		return Backend{
			Name:         DriverSQLite,
			GooseDialect: sqlite.GooseDialect,
			Dialect:      sqlite.Dialect{},
			Migrations:   sqlite.Migrations,
			open:         sqlite.Open,
		}, nil
	default:
		return Backend{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DB is an open database together with its backend.
type DB struct {
	*sql.DB
	Backend Backend
}

// Open opens the database described by cfg.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	backend, err := ForDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := backend.open(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", backend.Name, err)
	}
	return &DB{DB: db, Backend: backend}, nil
}

// OpenMigrated opens the database and brings its schema up to date.
func OpenMigrated(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, CommandUp); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"

	// pgx database/sql driver, registered as "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// GooseDialect is the goose dialect name for PostgreSQL.
const GooseDialect = "postgres"

// Migrations holds the PostgreSQL schema migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Pool settings applied by Open.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Open opens a connection pool for url and verifies it with a ping.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", MapError(err))
	}
	return db, nil
}

// Dialect is the sqlstore.Dialect for PostgreSQL.
type Dialect struct{}

var _ sqlstore.Dialect = Dialect{}

// Name implements sqlstore.Dialect.
func (Dialect) Name() string { return "postgres" }

// Rebind implements sqlstore.Dialect, numbering placeholders $1, $2, ...
func (Dialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MapError implements sqlstore.Dialect.
func (Dialect) MapError(err error) error { return MapError(err) }

// Timestamp implements sqlstore.Dialect.
func (Dialect) Timestamp(t time.Time) driver.Value { return t.UTC() }

// List implements sqlstore.Dialect. pgx encodes []string as text[].
func (Dialect) List(items []string) (any, error) {
	if items == nil {
		items = []string{}
	}
	return items, nil
}

// ListScanner implements sqlstore.Dialect. A pgtype.Map is not safe for
// concurrent use, so each scanner gets its own.
func (Dialect) ListScanner(dst *[]string) sql.Scanner {
	return pgtype.NewMap().SQLScanner(dst)
}

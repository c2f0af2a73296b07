// Package sqlite provides the embedded SQLite backend used for local runs
// and tests. It supplies the sqlstore.Dialect for SQLite, opens databases
// with the pure Go modernc driver and embeds the SQLite migrations.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// GooseDialect is the goose dialect name for SQLite.
const GooseDialect = "sqlite3"

// Migrations holds the SQLite schema migrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Open opens the SQLite database at dsn and verifies the connection.
// Pragmas are set through the DSN so that every pooled connection gets
// them. In-memory databases are limited to one connection, since each
// connection would otherwise see its own empty database.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if isMemory(dsn) {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", Dialect{}.MapError(err))
	}
	return db, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		if isMemory(dsn) && strings.HasPrefix(p, "journal_mode") {
			continue
		}
		params = append(params, "_pragma="+url.QueryEscape(p))
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

func isMemory(dsn string) bool {
	return dsn == "" || strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// Dialect is the sqlstore.Dialect for SQLite. Timestamps are stored as
// fixed-width UTC text and lists as JSON arrays.
type Dialect struct{}

var _ sqlstore.Dialect = Dialect{}

// Name implements sqlstore.Dialect.
func (Dialect) Name() string { return "sqlite" }

// Rebind implements sqlstore.Dialect. SQLite accepts ? placeholders as is.
func (Dialect) Rebind(query string) string { return query }

// Timestamp implements sqlstore.Dialect.
func (Dialect) Timestamp(t time.Time) driver.Value {
	return t.UTC().Format(sqlstore.TimestampLayout)
}

// List implements sqlstore.Dialect.
func (Dialect) List(items []string) (any, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

// ListScanner implements sqlstore.Dialect.
func (Dialect) ListScanner(dst *[]string) sql.Scanner {
	return jsonList{dst: dst}
}

type jsonList struct {
	dst *[]string
}

func (l jsonList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l.dst = []string{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into list", src)
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode list: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l.dst = items
	return nil
}

// Package sqlstore implements the store interfaces over database/sql. The
// SQL is written once with ? placeholders; a Dialect supplied by
// internal/platform/postgres or internal/platform/sqlite adapts
// placeholders, list columns, timestamps and driver errors.
package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"
)

// Dialect captures what differs between the supported databases.
type Dialect interface {
	// Name identifies the dialect in logs.
	Name() string

	// Rebind rewrites ? placeholders into the driver's syntax.
	Rebind(query string) string

	// MapError translates a driver error into a store sentinel, leaving
	// nil and unrecognized errors untouched.
	MapError(err error) error

	// Timestamp converts t into the value stored in timestamp columns.
	Timestamp(t time.Time) driver.Value

	// List converts an ordered string list into a column value.
	List(items []string) (any, error)

	// ListScanner returns a scanner that decodes a list column into dst.
	ListScanner(dst *[]string) sql.Scanner
}

// TimestampLayout is the fixed-width layout used by dialects that store
// timestamps as text. Fixed width keeps lexical and chronological order
// identical.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// timestamp scans either a native time value or TimestampLayout text.
type timestamp struct {
	dst *time.Time
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.dst = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		*ts.dst = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(s string) error {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			*ts.dst = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

func scanTime(dst *time.Time) sql.Scanner {
	return timestamp{dst: dst}
}

package sqlite_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/tatame-api/internal/platform/sqlite"
	"github.com/phrazzld/tatame-api/internal/platform/sqlstore"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openScratch(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE parents (id TEXT PRIMARY KEY);
		CREATE TABLE children (
			id TEXT PRIMARY KEY,
			parent_id TEXT NOT NULL REFERENCES parents (id),
			email TEXT NOT NULL UNIQUE,
			effort INTEGER NOT NULL CHECK (effort BETWEEN 1 AND 5)
		);
		INSERT INTO parents (id) VALUES ('p1');
		INSERT INTO children (id, parent_id, email, effort) VALUES ('c1', 'p1', 'a@example.com', 3);
	`)
	require.NoError(t, err)
	return db
}

func TestMapErrorFromDriver(t *testing.T) {
	db := openScratch(t)
	d := sqlite.Dialect{}

	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{
			name:    "unique violation",
			query:   `INSERT INTO children (id, parent_id, email, effort) VALUES ('c2', 'p1', 'a@example.com', 3)`,
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "primary key violation",
			query:   `INSERT INTO children (id, parent_id, email, effort) VALUES ('c1', 'p1', 'b@example.com', 3)`,
			wantErr: store.ErrDuplicate,
		},
		{
			name:    "foreign key violation",
			query:   `INSERT INTO children (id, parent_id, email, effort) VALUES ('c3', 'nope', 'c@example.com', 3)`,
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "check violation",
			query:   `INSERT INTO children (id, parent_id, email, effort) VALUES ('c4', 'p1', 'd@example.com', 9)`,
			wantErr: store.ErrInvalidEntity,
		},
		{
			name:    "not null violation",
			query:   `INSERT INTO children (id, parent_id, email, effort) VALUES ('c5', 'p1', NULL, 2)`,
			wantErr: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, d.MapError(err), tt.wantErr)
		})
	}
}

func TestMapErrorGeneric(t *testing.T) {
	d := sqlite.Dialect{}

	assert.NoError(t, d.MapError(nil))
	assert.ErrorIs(t, d.MapError(sql.ErrNoRows), store.ErrNotFound)
	assert.ErrorIs(t, d.MapError(fmt.Errorf("query: %w", driver.ErrBadConn)), store.ErrUnavailable)
	assert.ErrorIs(t, d.MapError(context.DeadlineExceeded), store.ErrUnavailable)
	assert.ErrorIs(t, d.MapError(errors.New("UNIQUE constraint failed: users.email")), store.ErrDuplicate)

	other := errors.New("no such table: nope")
	assert.Equal(t, other, d.MapError(other))
}

func TestDialect(t *testing.T) {
	d := sqlite.Dialect{}

	assert.Equal(t, "sqlite", d.Name())
	assert.Equal(t, "SELECT ? FROM t", d.Rebind("SELECT ? FROM t"))

	ts := time.Date(2024, 3, 1, 12, 0, 0, 5000, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, "2024-03-01T15:00:00.000005000Z", d.Timestamp(ts))
	assert.Len(t, d.Timestamp(ts), len(sqlstore.TimestampLayout))
}

func TestListRoundTrip(t *testing.T) {
	d := sqlite.Dialect{}

	encoded, err := d.List([]string{"armlock", "x-guard"})
	require.NoError(t, err)
	assert.Equal(t, `["armlock","x-guard"]`, encoded)

	empty, err := d.List(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, empty)

	var got []string
	require.NoError(t, d.ListScanner(&got).Scan([]byte(`["armlock","x-guard"]`)))
	assert.Equal(t, []string{"armlock", "x-guard"}, got)

	require.NoError(t, d.ListScanner(&got).Scan(nil))
	assert.Equal(t, []string{}, got)

	require.NoError(t, d.ListScanner(&got).Scan("null"))
	assert.Equal(t, []string{}, got)

	assert.Error(t, d.ListScanner(&got).Scan(42))
	assert.Error(t, d.ListScanner(&got).Scan("not json"))
}

func TestForeignKeysEnabledOnEveryConnection(t *testing.T) {
	db, err := sqlite.Open(context.Background(), "file:"+t.TempDir()+"/fk.db")
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	conns := make([]*sql.Conn, 0, 3)
	for range 3 {
		conn, err := db.Conn(context.Background())
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	for _, conn := range conns {
		var enabled int
		require.NoError(t, conn.QueryRowContext(context.Background(), "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled)
		_ = conn.Close()
	}
}

func TestMapErrorClosedPool(t *testing.T) {
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.QueryContext(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.Dialect{}.MapError(err), store.ErrUnavailable)
}

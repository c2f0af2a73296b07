package postgres_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tatame-api/internal/platform/postgres"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		SchemaName:     "public",
		TableName:      "goals",
		ColumnName:     "title",
		ConstraintName: "goals_status_check",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "no rows", err: sql.ErrNoRows, wantErr: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505"), wantErr: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503"), wantErr: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514"), wantErr: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), wantErr: store.ErrInvalidEntity},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", newPgError("23505")), wantErr: store.ErrDuplicate},
		{name: "connection exception class", err: newPgError("08006"), wantErr: store.ErrUnavailable},
		{name: "admin shutdown", err: newPgError("57P01"), wantErr: store.ErrUnavailable},
		{name: "bad conn", err: driver.ErrBadConn, wantErr: store.ErrUnavailable},
		{name: "conn done", err: sql.ErrConnDone, wantErr: store.ErrUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, wantErr: store.ErrUnavailable},
		{name: "network error", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, wantErr: store.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err)
			assert.ErrorIs(t, got, tt.wantErr)
		})
	}
}

func TestMapErrorPassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.MapError(nil))

	generic := errors.New("something else")
	assert.Same(t, generic, postgres.MapError(generic))

	syntax := newPgError("42601")
	assert.Equal(t, error(syntax), postgres.MapError(syntax))
}

func TestMapErrorKeepsConstraintName(t *testing.T) {
	t.Parallel()

	err := postgres.MapError(newPgError("23514"))
	assert.Contains(t, err.Error(), "goals_status_check")
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsUniqueViolation(newPgError("23505")))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
	assert.False(t, postgres.IsUniqueViolation(errors.New("generic error")))
	assert.False(t, postgres.IsUniqueViolation(nil))
}

// closedPoolError returns what database/sql reports for a query on a pool
// that has been closed. sql.Open does not connect, so no server is needed.
func closedPoolError(t *testing.T) error {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://tatame@localhost:1/tatame")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.QueryContext(context.Background(), "SELECT 1")
	require.Error(t, err)
	return err
}

func TestMapErrorClosedPool(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, postgres.MapError(closedPoolError(t)), store.ErrUnavailable)
}

func TestIsConnectionError(t *testing.T) {
	t.Parallel()

	assert.True(t, postgres.IsConnectionError(fmt.Errorf("ping: %w", driver.ErrBadConn)))
	assert.True(t, postgres.IsConnectionError(closedPoolError(t)))
	assert.False(t, postgres.IsConnectionError(newPgError("23505")))
	assert.False(t, postgres.IsConnectionError(nil))
}

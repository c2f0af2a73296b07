// Package testutils provides helpers shared by the package tests: a
// migrated in-memory database, store bundles over it, and record fixtures.
//
// Usage:
//
//	func TestMyFeature(t *testing.T) {
//	    db := testutils.NewTestDB(t)
//	    stores := testutils.CreateTestStores(db)
//	    profile := testutils.MustInsertProfile(t, stores, domain.TierFree)
//	    ...
//	}
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/phrazzld/tatame-api/internal/config"
	"github.com/phrazzld/tatame-api/internal/platform/database"
	"github.com/stretchr/testify/require"
)

var dbCounter atomic.Int64

// NewTestDB opens a private, fully migrated in-memory SQLite database that
// is closed when the test ends.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:tatame_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := database.OpenMigrated(context.Background(), config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    dsn,
	})
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		CleanupDB(t, db.DB)
	})
	return db
}

// CleanupDB closes a database connection and logs any error.
func CleanupDB(t *testing.T, db *sql.DB) {
	t.Helper()
	if err := db.Close(); err != nil {
		t.Logf("warning: failed to close database: %v", err)
	}
}

// WithTx runs fn inside a transaction that is rolled back afterwards.
func WithTx(t *testing.T, db *database.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")
	defer AssertRollbackNoError(t, tx)

	fn(t, tx)
}

// AssertRollbackNoError rolls tx back, tolerating an already finished
// transaction.
func AssertRollbackNoError(t *testing.T, tx *sql.Tx) {
	t.Helper()
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		t.Errorf("failed to roll back transaction: %v", err)
	}
}

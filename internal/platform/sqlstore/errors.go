package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/phrazzld/tatame-api/internal/store"
)

// checkRowsAffected returns notFound when an UPDATE or DELETE matched no
// row.
func checkRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to checkRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

// specializeDuplicate replaces a mapped duplicate error with a more specific
// sentinel, keeping the driver message for logs.
func specializeDuplicate(err error, specific error) error {
	if errors.Is(err, store.ErrDuplicate) {
		return fmt.Errorf("%w: %v", specific, err)
	}
	return err
}

// IsPoolClosed reports whether err comes from using a *sql.DB after Close.
// database/sql does not export that error, so its message is matched.
func IsPoolClosed(err error) bool {
	return err != nil && strings.Contains(err.Error(), "sql: database is closed")
}

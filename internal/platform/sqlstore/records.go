package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/redact"
	"github.com/phrazzld/tatame-api/internal/store"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes how one record kind maps onto its SQL table. columns
// always starts with id, owner_id and ends with created_at; values and scan
// follow the same order.
type table[R any] struct {
	entity   string
	name     string
	columns  []string
	orderBy  string
	notFound error

	values func(d Dialect, r *R) ([]any, error)
	scan   func(d Dialect, row rowScanner) (*R, error)
	stamp  func(r *R, id uuid.UUID, createdAt time.Time)
	id     func(r *R) uuid.UUID
	owner  func(r *R) uuid.UUID
}

func (t *table[R]) columnList() string {
	return strings.Join(t.columns, ", ")
}

// RecordStore is the owner-scoped store for one record kind.
type RecordStore[R any] struct {
	db      store.DBTX
	dialect Dialect
	table   *table[R]
	logger  *slog.Logger
	now     func() time.Time

	insertSQL string
	listSQL   string
	countSQL  string
	statusSQL string
}

func newRecordStore[R any](db store.DBTX, d Dialect, t *table[R], log *slog.Logger) *RecordStore[R] {
	if db == nil {
		panic("db cannot be nil")
	}
	if d == nil {
		panic("dialect cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return &RecordStore[R]{
		db:      db,
		dialect: d,
		table:   t,
		logger:  log.With(slog.String("component", t.entity+"_store")),
		now:     time.Now,
		insertSQL: d.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			t.name, t.columnList(), placeholders)),
		listSQL: d.Rebind(fmt.Sprintf("SELECT %s FROM %s WHERE owner_id = ? ORDER BY %s",
			t.columnList(), t.name, t.orderBy)),
		countSQL: d.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE owner_id = ?", t.name)),
		statusSQL: d.Rebind(fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE owner_id = ? AND status = ?",
			t.name)),
	}
}

// Create implements store.RecordStore.Create. The store assigns the ID and
// creation timestamp.
func (s *RecordStore[R]) Create(ctx context.Context, record *R) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.table.stamp(record, uuid.New(), s.now().UTC().Truncate(time.Microsecond))
	values, err := s.table.values(s.dialect, record)
	if err != nil {
		return store.NewStoreError(s.table.entity, "create", "failed to encode record", err)
	}

	if _, err := s.db.ExecContext(ctx, s.insertSQL, values...); err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to create record",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", s.table.owner(record).String()))
		return store.NewStoreError(s.table.entity, "create", "insert failed", err)
	}

	log.Debug("record created",
		slog.String("user_id", s.table.owner(record).String()),
		slog.String("record_id", s.table.id(record).String()))
	return nil
}

// ListByOwner implements store.RecordStore.ListByOwner.
func (s *RecordStore[R]) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*R, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, s.listSQL, ownerID)
	if err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to list records",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", ownerID.String()))
		return nil, store.NewStoreError(s.table.entity, "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*R, 0)
	for rows.Next() {
		r, err := s.table.scan(s.dialect, rows)
		if err != nil {
			return nil, store.NewStoreError(s.table.entity, "list", "scan failed", s.dialect.MapError(err))
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(s.table.entity, "list", "iteration failed", s.dialect.MapError(err))
	}

	log.Debug("records listed",
		slog.String("user_id", ownerID.String()),
		slog.Int("count", len(records)))
	return records, nil
}

// CountByOwner implements store.RecordStore.CountByOwner.
func (s *RecordStore[R]) CountByOwner(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row *sql.Row
	if status == "" {
		row = s.db.QueryRowContext(ctx, s.countSQL, ownerID)
	} else {
		row = s.db.QueryRowContext(ctx, s.statusSQL, ownerID, status)
	}

	var count int
	if err := row.Scan(&count); err != nil {
		err = s.dialect.MapError(err)
		log.Error("failed to count records",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", ownerID.String()),
			slog.String("status", status))
		return 0, store.NewStoreError(s.table.entity, "count", "query failed", err)
	}
	return count, nil
}

// StatusRecordStore adds owner-scoped status updates to a RecordStore.
type StatusRecordStore[R any, S ~string] struct {
	*RecordStore[R]
	updateSQL string
}

func newStatusRecordStore[R any, S ~string](db store.DBTX, d Dialect, t *table[R], log *slog.Logger) *StatusRecordStore[R, S] {
	base := newRecordStore(db, d, t, log)
	return &StatusRecordStore[R, S]{
		RecordStore: base,
		updateSQL: d.Rebind(fmt.Sprintf("UPDATE %s SET status = ? WHERE id = ? AND owner_id = ? RETURNING %s",
			t.name, t.columnList())),
	}
}

// UpdateStatus implements store.StatusStore.UpdateStatus. The owner
// condition is part of the UPDATE itself, so another owner's record is
// never touched and is reported as not found.
func (s *StatusRecordStore[R, S]) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status S) (*R, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, s.updateSQL, string(status), id, ownerID)
	record, err := s.table.scan(s.dialect, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("record not found for owner",
				slog.String("record_id", id.String()),
				slog.String("user_id", ownerID.String()))
			return nil, s.table.notFound
		}
		err = s.dialect.MapError(err)
		log.Error("failed to update record status",
			slog.String("error", redact.Error(err)),
			slog.String("record_id", id.String()),
			slog.String("status", string(status)))
		return nil, store.NewStoreError(s.table.entity, "update_status", "update failed", err)
	}

	log.Debug("record status updated",
		slog.String("record_id", id.String()),
		slog.String("user_id", ownerID.String()),
		slog.String("status", string(status)))
	return record, nil
}

package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockRecordStore is a testify mock of store.RecordStore for any record kind.
type MockRecordStore[R any] struct {
	mock.Mock
}

var _ store.RecordStore[struct{}] = (*MockRecordStore[struct{}])(nil)

func (m *MockRecordStore[R]) Create(ctx context.Context, record *R) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordStore[R]) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*R, error) {
	return returned[[]*R](m.Called(ctx, ownerID))
}

// CountByOwner expects the status argument as a plain string; "" counts
// every record.
func (m *MockRecordStore[R]) CountByOwner(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Int(0), args.Error(1)
}

// MockStatusStore is a testify mock of store.StatusStore.
type MockStatusStore[R any, S ~string] struct {
	MockRecordStore[R]
}

var _ store.StatusStore[struct{}, string] = (*MockStatusStore[struct{}, string])(nil)

func (m *MockStatusStore[R, S]) UpdateStatus(ctx context.Context, id, ownerID uuid.UUID, status S) (*R, error) {
	return returned[*R](m.Called(ctx, id, ownerID, status))
}

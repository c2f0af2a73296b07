package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tatame-api/internal/domain"
	"github.com/phrazzld/tatame-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// returned extracts a typed first return value and the error in second
// position. A nil or mistyped first value yields T's zero value.
func returned[T any](args mock.Arguments) (T, error) {
	v, _ := args.Get(0).(T)
	return v, args.Error(1)
}

// TestifyMockUserStore is a testify mock of store.UserStore. WithTx returns
// the mock itself unless a different store is set up for the call.
type TestifyMockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*TestifyMockUserStore)(nil)

func (m *TestifyMockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *TestifyMockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return returned[*domain.User](m.Called(ctx, id))
}

func (m *TestifyMockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return returned[*domain.User](m.Called(ctx, email))
}

func (m *TestifyMockUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashed string) error {
	return m.Called(ctx, id, hashed).Error(0)
}

func (m *TestifyMockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	if s, ok := m.Called(tx).Get(0).(store.UserStore); ok {
		return s
	}
	return m
}

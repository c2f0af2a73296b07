package mocks

import (
	"errors"

	"github.com/phrazzld/tatame-api/internal/service/auth"
)

var (
	_ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)
	_ auth.PasswordHasher   = (*MockPasswordVerifier)(nil)
)

// ErrPasswordMismatch is what MockPasswordVerifier.Compare returns when
// ShouldSucceed is false.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordVerifier hashes by prefixing "hashed:" and compares according
// to ShouldSucceed, unless CompareFn or HashFn override it. Compared counts
// Compare calls.
type MockPasswordVerifier struct {
	ShouldSucceed bool
	CompareFn     func(hashed, password string) error
	HashFn        func(password string) (string, error)

	Compared int
}

func (m *MockPasswordVerifier) Compare(hashed, password string) error {
	m.Compared++
	switch {
	case m.CompareFn != nil:
		return m.CompareFn(hashed, password)
	case m.ShouldSucceed:
		return nil
	default:
		return ErrPasswordMismatch
	}
}

func (m *MockPasswordVerifier) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

package mocks

import (
	"context"
	"sync"
	"time"
)

// SentReset is one password reset handed to MockMailer.
type SentReset struct {
	Email     string
	Token     string
	ExpiresAt time.Time
}

// MockMailer implements service.Mailer and remembers what it was asked to send.
type MockMailer struct {
	// Err is returned from every send when set
	Err error

	mu   sync.Mutex
	sent []SentReset
}

// SendPasswordReset implements the service.Mailer interface
func (m *MockMailer) SendPasswordReset(_ context.Context, email, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentReset{Email: email, Token: token, ExpiresAt: expiresAt})
	return m.Err
}

// Sent returns a copy of every reset sent so far.
func (m *MockMailer) Sent() []SentReset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentReset(nil), m.sent...)
}

// LastToken returns the most recently sent token, or "" if none.
func (m *MockMailer) LastToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Token
}

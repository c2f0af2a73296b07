// Package mailer delivers password reset tokens. LogMailer writes them to
// the log and is meant for local runs, where no mail relay exists.
package mailer

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/phrazzld/tatame-api/internal/platform/logger"
)

// LogMailer logs each reset link instead of sending it.
type LogMailer struct {
	resetURL string
	logger   *slog.Logger
}

// NewLogMailer creates a LogMailer. resetURL is the client page that
// accepts the token; it may be empty, in which case only the token is
// logged.
func NewLogMailer(resetURL string, log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{
		resetURL: resetURL,
		logger:   log.With(slog.String("component", "mailer")),
	}
}

// SendPasswordReset logs the reset link for email.
func (m *LogMailer) SendPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, m.logger)
	log.Info("password reset mail",
		slog.String("to", email),
		slog.String("link", m.link(token)),
		slog.Time("expires_at", expiresAt))
	return nil
}

func (m *LogMailer) link(token string) string {
	if m.resetURL == "" {
		return token
	}
	u, err := url.Parse(m.resetURL)
	if err != nil {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/tatame-api/internal/platform/logger"
)

// NewAuditLogger returns a handler that writes every event to the log.
// Quota denials are an upsell rather than a failure and are logged at
// debug level.
func NewAuditLogger(log *slog.Logger) EventHandler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "audit"))

	return HandlerFunc(func(ctx context.Context, event *Event) error {
		l := logger.FromContextOrDefault(ctx, log)
		attrs := []any{
			slog.String("event_type", event.Type),
			slog.String("user_id", event.OwnerID.String()),
			slog.String("resource", event.Resource),
		}

		switch event.Type {
		case TypeQuotaExceeded:
			l.Debug("quota reached", append(attrs, slog.Int("limit", event.Limit))...)
		case TypeRecordStatusUpdated:
			l.Info("record status updated", append(attrs,
				slog.String("record_id", event.RecordID.String()),
				slog.String("status", event.Status))...)
		default:
			l.Info("record created", append(attrs, slog.String("record_id", event.RecordID.String()))...)
		}
		return nil
	})
}

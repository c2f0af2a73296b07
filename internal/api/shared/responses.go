package shared

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/phrazzld/tatame-api/internal/redact"
)

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Code    int    `json:"-"`
	TraceID string `json:"trace_id,omitempty"`

	// Quota refusals only.
	Resource   string `json:"resource,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	UpgradeURL string `json:"upgrade_url,omitempty"`
}

// ResponseOption defines a function to customize an error response.
type ResponseOption func(*responseOptions)

type responseOptions struct {
	elevateLogLevel bool
	decorate        []func(*ErrorResponse)
}

// WithElevatedLogLevel logs a 4xx response at WARN instead of DEBUG.
func WithElevatedLogLevel() ResponseOption {
	return func(opts *responseOptions) {
		opts.elevateLogLevel = true
	}
}

// WithField names the request field that caused the error.
func WithField(field string) ResponseOption {
	return func(opts *responseOptions) {
		opts.decorate = append(opts.decorate, func(r *ErrorResponse) { r.Field = field })
	}
}

// WithQuota attaches the upsell details of a quota refusal.
func WithQuota(resource string, limit int, upgradeURL string) ResponseOption {
	return func(opts *responseOptions) {
		opts.decorate = append(opts.decorate, func(r *ErrorResponse) {
			r.Resource = resource
			r.Limit = limit
			r.UpgradeURL = upgradeURL
		})
	}
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// RespondWithError writes a JSON error response with the given status code and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string, opts ...ResponseOption) {
	RespondWithErrorAndLog(w, r, status, message, nil, opts...)
}

// RespondWithErrorAndLog writes a JSON error response and logs err. Only
// userMessage reaches the client; err is redacted before it is logged.
func RespondWithErrorAndLog(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	userMessage string,
	err error,
	opts ...ResponseOption,
) {
	var o responseOptions
	for _, opt := range opts {
		opt(&o)
	}

	body := ErrorResponse{Error: userMessage, Code: status, TraceID: GetTraceID(r.Context())}
	for _, decorate := range o.decorate {
		decorate(&body)
	}

	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status_code", status),
		slog.String("user_message", userMessage),
	}
	if body.Resource != "" {
		attrs = append(attrs, slog.String("resource", body.Resource), slog.Int("limit", body.Limit))
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("error", redact.Error(err)),
			slog.String("error_type", fmt.Sprintf("%T", err)))
	}

	// The request logger already carries the trace id.
	logger.FromContext(r.Context()).LogAttrs(r.Context(), errorLogLevel(status, o.elevateLogLevel),
		"API error response", attrs...)

	RespondWithJSON(w, r, status, body)
}

// errorLogLevel is ERROR for 5xx and WARN for throttling. Other client errors
// log at DEBUG unless elevated.
func errorLogLevel(status int, elevated bool) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusTooManyRequests:
		return slog.LevelWarn
	case elevated && status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}

package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tatame-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusCreated,
		map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	logs, log := logger.NewTestLogger(slog.LevelDebug)

	ctx := SetTraceID(logger.WithLogger(httptest.NewRequest(http.MethodGet, "/", nil).Context(), log))
	req := httptest.NewRequest(http.MethodPost, "/api/goals", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	RespondWithErrorAndLog(rec, req, http.StatusPaymentRequired, "Upgrade to add more.",
		errors.New("checking quota for athlete@example.com"),
		WithQuota("goal", 3, "/api/subscription"))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Upgrade to add more.", body["error"])
	assert.Equal(t, GetTraceID(ctx), body["trace_id"])
	assert.Equal(t, "goal", body["resource"])
	assert.Equal(t, float64(3), body["limit"])
	assert.Equal(t, "/api/subscription", body["upgrade_url"])
	assert.NotContains(t, body, "field")
	assert.NotContains(t, body, "Code")

	entry, ok := logs.Find("API error response")
	require.True(t, ok)
	assert.Equal(t, "DEBUG", entry["level"])
	assert.NotContains(t, entry["error"], "athlete@example.com", "error detail is redacted")
}

func TestRespondWithErrorAndLog_Levels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
		want   string
	}{
		{"server error", http.StatusInternalServerError, nil, "ERROR"},
		{"throttled", http.StatusTooManyRequests, nil, "WARN"},
		{"elevated client error", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
		{"client error", http.StatusBadRequest, []ResponseOption{WithField("title")}, "DEBUG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs, log := logger.NewTestLogger(slog.LevelDebug)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logger.WithLogger(req.Context(), log))

			RespondWithErrorAndLog(httptest.NewRecorder(), req, tt.status, "msg", nil, tt.opts...)

			entry, ok := logs.Find("API error response")
			require.True(t, ok)
			assert.Equal(t, tt.want, entry["level"])
			assert.Equal(t, float64(tt.status), entry["status_code"])
		})
	}
}

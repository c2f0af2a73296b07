package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler remembers the events it receives.
type recordingHandler struct {
	mu     sync.Mutex
	events []*Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventEmitter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	owner := uuid.New()

	t.Run("emit event with no handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		err := emitter.EmitEvent(context.Background(), NewRecordCreated(owner, "sessions", uuid.New()))
		assert.NoError(t, err)
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		h1, h2 := &recordingHandler{}, &recordingHandler{}
		emitter.RegisterHandler(h1)
		emitter.RegisterHandler(h2)

		event := NewRecordCreated(owner, "sessions", uuid.New())
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		require.Equal(t, 1, h1.count())
		require.Equal(t, 1, h2.count())
		assert.Same(t, event, h1.events[0])
		assert.Same(t, event, h2.events[0])
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		failing := &recordingHandler{err: errors.New("handler error")}
		succeeding := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(succeeding)

		err := emitter.EmitEvent(context.Background(), NewQuotaExceeded(owner, "goals", 1))
		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Equal(t, 1, failing.count())
		assert.Equal(t, 1, succeeding.count())
	})

	t.Run("panicking handler is reported as an error", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(logger)
		emitter.RegisterHandler(HandlerFunc(func(context.Context, *Event) error { panic("boom") }))
		after := &recordingHandler{err: errors.New("second failure")}
		emitter.RegisterHandler(after)

		var err error
		require.NotPanics(t, func() {
			err = emitter.EmitEvent(context.Background(), NewRecordCreated(owner, "goals", uuid.New()))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "event handler panicked: boom")
		assert.Contains(t, err.Error(), "second failure")
		assert.Equal(t, 1, after.count())
	})

	t.Run("concurrent registration and emission", func(t *testing.T) {
		emitter := NewInMemoryEventEmitter(nil)
		h := &recordingHandler{}
		emitter.RegisterHandler(h)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = emitter.EmitEvent(context.Background(), NewRecordCreated(owner, "techniques", uuid.New()))
			}()
			go func() {
				defer wg.Done()
				emitter.RegisterHandler(HandlerFunc(func(context.Context, *Event) error { return nil }))
			}()
		}
		wg.Wait()
		assert.Equal(t, 16, h.count())
	})
}

func TestEventConstructors(t *testing.T) {
	t.Parallel()

	owner, record := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		event  *Event
		typ    string
		status string
		limit  int
	}{
		{"created", NewRecordCreated(owner, "sessions", record), TypeRecordCreated, "", 0},
		{"status updated", NewRecordStatusUpdated(owner, "goals", record, "COMPLETED"), TypeRecordStatusUpdated, "COMPLETED", 0},
		{"quota exceeded", NewQuotaExceeded(owner, "techniques", 10), TypeQuotaExceeded, "", 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, uuid.Nil, tc.event.ID)
			assert.Equal(t, tc.typ, tc.event.Type)
			assert.Equal(t, owner, tc.event.OwnerID)
			assert.Equal(t, tc.status, tc.event.Status)
			assert.Equal(t, tc.limit, tc.event.Limit)
			assert.False(t, tc.event.OccurredAt.IsZero())
		})
	}
}

func TestAuditLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	audit := NewAuditLogger(logger)

	owner, record := uuid.New(), uuid.New()
	ctx := context.Background()
	require.NoError(t, audit.HandleEvent(ctx, NewRecordCreated(owner, "sessions", record)))
	require.NoError(t, audit.HandleEvent(ctx, NewRecordStatusUpdated(owner, "goals", record, "ABANDONED")))
	require.NoError(t, audit.HandleEvent(ctx, NewQuotaExceeded(owner, "techniques", 10)))

	out := buf.String()
	assert.Contains(t, out, `"msg":"record created"`)
	assert.Contains(t, out, `"msg":"record status updated"`)
	assert.Contains(t, out, `"status":"ABANDONED"`)
	assert.Contains(t, out, `"msg":"quota reached"`)
	assert.Contains(t, out, `"limit":10`)
	assert.Contains(t, out, `"component":"audit"`)
	assert.Contains(t, out, owner.String())
}

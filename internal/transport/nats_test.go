package transport

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/storebuddy-assistant/internal/assistant"
	"github.com/avvvet/storebuddy-assistant/internal/config"
	"github.com/avvvet/storebuddy-assistant/internal/handlers"
	"github.com/avvvet/storebuddy-assistant/internal/models"
)

type published struct {
	subject string
	event   models.SessionEvent
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) publish(subject string, data []byte) error {
	var event models.SessionEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{subject: subject, event: event})
	return nil
}

func newTestNATSTransport(t *testing.T) (*NATSTransport, *recorder) {
	t.Helper()
	return newTestNATSTransportWithFallback(t, cannedFallback{reply: "generated"})
}

func newTestNATSTransportWithFallback(t *testing.T, fb assistant.Fallback) (*NATSTransport, *recorder) {
	t.Helper()

	rec := &recorder{}
	nt := &NATSTransport{
		config: &config.Config{
			NatsRequestSubject: "assistant.submit",
			NatsEventSubject:   "assistant.events",
			NatsTimeout:        5 * time.Second,
		},
		logger:  zerolog.Nop(),
		publish: rec.publish,
	}
	svc, _ := newTestAssistantWithFallback(t, fb, assistant.WithListener(nt))
	nt.handler = handlers.NewChatHandler(svc, zerolog.Nop())
	return nt, rec
}

func decodeResponse(t *testing.T, data []byte) models.ChatResponse {
	t.Helper()
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}

func TestNATSHandle_ProductRequest(t *testing.T) {
	nt, rec := newTestNATSTransport(t)

	resp := decodeResponse(t, nt.handle([]byte(`{"session_id":"s1","text":"mens tshirt"}`)))
	assert.Equal(t, models.StatusOK, resp.Status)
	require.Len(t, resp.Messages, 1)
	require.Len(t, resp.Messages[0].Results, 1)
	assert.Equal(t, "Men Cotton T-Shirt", resp.Messages[0].Results[0].Product.Name)

	require.Len(t, rec.events, 2)
	assert.Equal(t, "assistant.events.s1", rec.events[0].subject)
	assert.Equal(t, models.EventAppended, rec.events[0].event.Type)
}

func TestNATSHandle_FallbackPublishesReplacement(t *testing.T) {
	nt, rec := newTestNATSTransport(t)

	resp := decodeResponse(t, nt.handle([]byte(`{"session_id":"s1","text":"any jokes"}`)))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "generated", resp.Messages[0].Content)

	// user message, placeholder, replacement
	require.Len(t, rec.events, 3)
	placeholder := rec.events[1].event
	assert.True(t, placeholder.Message.Pending)
	assert.Equal(t, models.EventReplaced, rec.events[2].event.Type)
	assert.Equal(t, placeholder.Message.ID, rec.events[2].event.Message.ID)
	assert.False(t, rec.events[2].event.Message.Pending)
}

func TestNATSHandle_BadRequests(t *testing.T) {
	nt, rec := newTestNATSTransport(t)

	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"session_id":`},
		{"missing text", `{"session_id":"s1"}`},
		{"missing session", `{"text":"milk"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := decodeResponse(t, nt.handle([]byte(tt.data)))
			assert.Equal(t, models.StatusError, resp.Status)
			require.NotNil(t, resp.ErrorCode)
			assert.Equal(t, models.ErrorInvalidRequest, *resp.ErrorCode)
			assert.Equal(t, handlers.ErrorUserMessage, resp.UserMessage)
		})
	}
	assert.Empty(t, rec.events)
}

func TestNATSDispatch_SlowSessionDoesNotBlockOthers(t *testing.T) {
	fb := &blockingFallback{entered: make(chan struct{}, 1), release: make(chan struct{})}
	nt, _ := newTestNATSTransportWithFallback(t, fb)

	slow := make(chan []byte, 1)
	fast := make(chan []byte, 1)
	respondTo := func(ch chan []byte) func([]byte) error {
		return func(data []byte) error {
			ch <- data
			return nil
		}
	}

	returned := make(chan struct{})
	go func() {
		nt.dispatch([]byte(`{"session_id":"slow","text":"any jokes"}`), respondTo(slow))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("dispatch blocked on the request")
	}
	<-fb.entered

	nt.dispatch([]byte(`{"session_id":"fast","text":"mens tshirt"}`), respondTo(fast))

	select {
	case data := <-fast:
		resp := decodeResponse(t, data)
		assert.Equal(t, models.StatusOK, resp.Status)
		require.Len(t, resp.Messages, 1)
		assert.Len(t, resp.Messages[0].Results, 1)
	case <-time.After(time.Second):
		t.Fatal("fast session waited for the slow fallback")
	}

	select {
	case <-slow:
		t.Fatal("slow session answered before its fallback was released")
	default:
	}

	close(fb.release)
	resp := decodeResponse(t, <-slow)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "generated", resp.Messages[0].Content)
}

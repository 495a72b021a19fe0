package models

import "github.com/avvvet/storebuddy-assistant/internal/memory"

// ChatRequest is a customer message sent over NATS or HTTP.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// ChatResponse carries the assistant messages produced for one turn.
type ChatResponse struct {
	SessionID    string           `json:"session_id"`
	Status       string           `json:"status"` // "OK", "ERROR"
	Messages     []memory.Message `json:"messages"`
	UserMessage  string           `json:"user_message,omitempty"`
	ErrorCode    *string          `json:"error_code,omitempty"`
	ErrorMessage *string          `json:"error_message,omitempty"`
}

// SessionResponse answers a session start.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Welcome   memory.Message `json:"welcome"`
}

// HistoryResponse lists the recorded messages of a session. Transcript
// holds the settled turns as "User:"/"Assistant:" lines.
type HistoryResponse struct {
	SessionID  string           `json:"session_id"`
	Messages   []memory.Message `json:"messages"`
	Transcript string           `json:"transcript"`
}

// SessionEvent is published when a message is added to or replaced in a
// session's history.
type SessionEvent struct {
	SessionID string         `json:"session_id"`
	Type      string         `json:"type"`
	Message   memory.Message `json:"message"`
}

// Status constants
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Event types
const (
	EventAppended = "message.appended"
	EventReplaced = "message.replaced"
)

// Error codes
const (
	ErrorInvalidRequest = "INVALID_REQUEST"
	ErrorSessionClosed  = "SESSION_CLOSED"
	ErrorInternal       = "INTERNAL"
)

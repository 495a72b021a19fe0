package memory

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/avvvet/storebuddy-assistant/internal/catalog"
)

// ErrMessageNotFound is returned when a replacement targets an unknown id.
var ErrMessageNotFound = errors.New("message not found")

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a conversation
type Message struct {
	ID        string           `json:"id"`
	Role      string           `json:"role"`              // "user" or "assistant"
	Content   string           `json:"content"`           // The actual message text
	Results   []catalog.Result `json:"results,omitempty"` // Attached search hits
	Pending   bool             `json:"pending,omitempty"` // Placeholder awaiting a fallback reply
	Timestamp time.Time        `json:"timestamp"`
}

// NewMessage creates a message with a fresh id.
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// SessionData represents all data for a conversation session
type SessionData struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
	Metadata  Metadata  `json:"metadata"`
}

// Metadata contains session information
type Metadata struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

func newSessionData(sessionID string) *SessionData {
	now := time.Now()
	return &SessionData{
		SessionID: sessionID,
		Messages:  []Message{},
		Metadata: Metadata{
			StartedAt:    now,
			LastActivity: now,
		},
	}
}

// appendMessage adds msg and refreshes the metadata.
func (s *SessionData) appendMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
	s.Metadata.LastActivity = time.Now()
	s.Metadata.MessageCount = len(s.Messages)
	if s.Metadata.MessageCount == 1 {
		s.Metadata.StartedAt = msg.Timestamp
	}
}

// replaceMessage swaps the message carrying msg.ID in place.
func (s *SessionData) replaceMessage(msg Message) error {
	for i := range s.Messages {
		if s.Messages[i].ID == msg.ID {
			s.Messages[i] = msg
			s.Metadata.LastActivity = time.Now()
			return nil
		}
	}
	return errors.Wrapf(ErrMessageNotFound, "session %s message %s", s.SessionID, msg.ID)
}

// Store defines the interface for conversation storage
type Store interface {
	// LoadSession loads a session from storage
	LoadSession(ctx context.Context, sessionID string) (*SessionData, error)

	// SaveMessage appends a message to a session
	SaveMessage(ctx context.Context, sessionID string, msg Message) error

	// ReplaceMessage overwrites the message with the same ID
	ReplaceMessage(ctx context.Context, sessionID string, msg Message) error

	// GetMessages retrieves all messages for a session
	GetMessages(ctx context.Context, sessionID string) ([]Message, error)

	// ClearSession removes a session from storage
	ClearSession(ctx context.Context, sessionID string) error

	// SessionExists checks if a session exists
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

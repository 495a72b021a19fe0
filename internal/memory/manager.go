package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

// Manager keeps session history in a Store and mirrors the settled messages
// of each active session into a LangChainGo conversation buffer.
type Manager struct {
	store    Store
	mu       sync.Mutex
	sessions map[string]*memory.ConversationBuffer // In-memory cache
	logger   zerolog.Logger
}

// NewManager creates a new memory manager
func NewManager(store Store, logger zerolog.Logger) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*memory.ConversationBuffer),
		logger:   logger,
	}
}

// GetOrCreateSession gets or creates a LangChainGo memory buffer for a session
func (m *Manager) GetOrCreateSession(ctx context.Context, sessionID string) (*memory.ConversationBuffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessionLocked(ctx, sessionID)
}

func (m *Manager) sessionLocked(ctx context.Context, sessionID string) (*memory.ConversationBuffer, error) {
	if mem, cached := m.sessions[sessionID]; cached {
		// The store may have expired the session since it was cached.
		exists, err := m.store.SessionExists(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session: %w", err)
		}
		if exists {
			return mem, nil
		}
		delete(m.sessions, sessionID)
	}

	mem := memory.NewConversationBuffer()

	sessionData, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	for _, msg := range sessionData.Messages {
		if err := addToBuffer(ctx, mem, msg); err != nil {
			return nil, err
		}
	}

	m.sessions[sessionID] = mem

	m.logger.Debug().
		Str("session_id", sessionID).
		Int("messages", len(sessionData.Messages)).
		Msg("📚 Loaded session")

	return mem, nil
}

// addToBuffer mirrors settled messages; placeholders stay out of the buffer.
func addToBuffer(ctx context.Context, mem *memory.ConversationBuffer, msg Message) error {
	if msg.Pending {
		return nil
	}

	var chatMsg llms.ChatMessage
	switch msg.Role {
	case RoleUser:
		chatMsg = llms.HumanChatMessage{Content: msg.Content}
	case RoleAssistant:
		chatMsg = llms.AIChatMessage{Content: msg.Content}
	default:
		return nil
	}

	if err := mem.ChatHistory.AddMessage(ctx, chatMsg); err != nil {
		return fmt.Errorf("failed to add message to memory: %w", err)
	}
	return nil
}

// Append saves msg to the store and, unless it is a placeholder, to the buffer
func (m *Manager) Append(ctx context.Context, sessionID string, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.sessionLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.store.SaveMessage(ctx, sessionID, msg); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	return addToBuffer(ctx, mem, msg)
}

// Replace overwrites a stored message by id. The settled replacement is
// added to the buffer, which never held the placeholder.
func (m *Manager) Replace(ctx context.Context, sessionID string, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.sessionLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.store.ReplaceMessage(ctx, sessionID, msg); err != nil {
		return fmt.Errorf("failed to replace message: %w", err)
	}

	return addToBuffer(ctx, mem, msg)
}

// GetFormattedHistory returns conversation history as a formatted string
func (m *Manager) GetFormattedHistory(ctx context.Context, sessionID string) (string, error) {
	mem, err := m.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := mem.ChatHistory.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get messages: %w", err)
	}

	if len(messages) == 0 {
		return "No previous conversation.", nil
	}

	var b strings.Builder
	for _, msg := range messages {
		switch cm := msg.(type) {
		case llms.HumanChatMessage:
			fmt.Fprintf(&b, "User: %s\n", cm.Content)
		case llms.AIChatMessage:
			fmt.Fprintf(&b, "Assistant: %s\n", cm.Content)
		}
	}

	return b.String(), nil
}

// GetMessages returns the stored messages, placeholders included
func (m *Manager) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	return m.store.GetMessages(ctx, sessionID)
}

// ClearSession clears a session from both cache and store
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	m.logger.Debug().Str("session_id", sessionID).Msg("🗑️ Cleared session")

	return nil
}

// Forget drops the cached buffer of a session. Stored history is kept and
// reloaded on next use.
func (m *Manager) Forget(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
}

// GetActiveSessionCount returns the number of cached sessions
func (m *Manager) GetActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// Close closes the underlying store
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

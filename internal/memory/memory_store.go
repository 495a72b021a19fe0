package memory

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

// InMemoryStore implements Store inside the process. Sessions idle for
// longer than the TTL are dropped on the next access, and all expired
// sessions are purged at most once per TTL when a new session is created.
type InMemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	sessions  map[string]*SessionData
	lastPurge time.Time
}

// NewInMemoryStore creates a store; ttl <= 0 keeps sessions until cleared.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{ttl: ttl, sessions: make(map[string]*SessionData)}
}

func (s *InMemoryStore) get(sessionID string) (*SessionData, bool) {
	session, ok := s.sessions[sessionID]
	if ok && s.ttl > 0 && time.Since(session.Metadata.LastActivity) > s.ttl {
		delete(s.sessions, sessionID)
		return nil, false
	}
	return session, ok
}

func (s *InMemoryStore) getOrCreate(sessionID string) *SessionData {
	session, ok := s.get(sessionID)
	if !ok {
		s.purgeExpired()
		session = newSessionData(sessionID)
		s.sessions[sessionID] = session
	}
	return session
}

func (s *InMemoryStore) purgeExpired() {
	if s.ttl <= 0 || time.Since(s.lastPurge) < s.ttl {
		return
	}
	s.lastPurge = time.Now()
	for id := range s.sessions {
		s.get(id)
	}
}

// Len reports how many sessions are held, expired ones included until purged.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *InMemoryStore) LoadSession(_ context.Context, sessionID string) (*SessionData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.get(sessionID)
	if !ok {
		return newSessionData(sessionID), nil
	}
	cp := *session
	cp.Messages = append([]Message(nil), session.Messages...)
	return &cp, nil
}

func (s *InMemoryStore) SaveMessage(_ context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getOrCreate(sessionID).appendMessage(msg)
	return nil
}

func (s *InMemoryStore) ReplaceMessage(_ context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.get(sessionID)
	if !ok {
		return errors.Wrapf(ErrMessageNotFound, "session %s", sessionID)
	}
	return session.replaceMessage(msg)
}

func (s *InMemoryStore) GetMessages(ctx context.Context, sessionID string) ([]Message, error) {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *InMemoryStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) SessionExists(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.get(sessionID)
	return ok, nil
}

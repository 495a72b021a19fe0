// Package assistant runs a customer message through the lookup stages in
// order (intent rules, short-input guard, catalog search, generated
// fallback) and keeps the per-session history.
package assistant

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/catalog"
	"github.com/avvvet/storebuddy-assistant/internal/intent"
	"github.com/avvvet/storebuddy-assistant/internal/matching"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
	"github.com/avvvet/storebuddy-assistant/internal/observability"
	"github.com/avvvet/storebuddy-assistant/internal/prompts"
)

var (
	ErrEmptySessionID = errors.New("session id is required")
	ErrSessionClosed  = errors.New("session closed")
	ErrServiceClosed  = errors.New("assistant closed")
)

// MinQueryLength is the normalized length a message must exceed before it
// is searched.
const MinQueryLength = 2

// DefaultIdleTimeout is how long an idle session stays registered.
const DefaultIdleTimeout = 30 * time.Minute

// Stage names the step that produced a turn's answer.
type Stage string

const (
	StageIntent   Stage = "intent"
	StageClarify  Stage = "clarify"
	StageFAQ      Stage = "faq"
	StageProduct  Stage = "product"
	StageFallback Stage = "fallback"
)

// Classifier maps text to a canned reply.
type Classifier interface {
	Respond(text string) (intent.Intent, string)
}

// Searcher looks text up in the catalog.
type Searcher interface {
	Search(query string) []catalog.Result
}

// Fallback produces a reply when nothing local matched. It must always
// return non-empty text.
type Fallback interface {
	Reply(ctx context.Context, userText string) string
}

// Listener observes history changes, e.g. to push placeholders to a UI.
type Listener interface {
	MessageAppended(sessionID string, msg memory.Message)
	MessageReplaced(sessionID string, msg memory.Message)
}

// Service is the conversation entry point.
type Service struct {
	classifier Classifier
	searcher   Searcher
	fallback   Fallback
	history    *memory.Manager
	logger     zerolog.Logger
	metrics    *observability.Metrics
	listener   Listener
	storeName  string
	idle       time.Duration

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
	closed    bool
}

type session struct {
	id      string
	mu      sync.Mutex // serialises turns
	ctx     context.Context
	cancel  context.CancelFunc
	pending atomic.Value // id of the placeholder awaiting a fallback reply

	// guarded by Service.mu
	refs     int
	lastUsed time.Time
}

func (s *session) pendingID() string {
	id, _ := s.pending.Load().(string)
	return id
}

type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithListener(l Listener) Option {
	return func(s *Service) { s.listener = l }
}

func WithStoreName(name string) Option {
	return func(s *Service) { s.storeName = name }
}

// WithIdleTimeout sets how long a session may stay unused before it is
// dropped from the registry. Zero disables eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Service) { s.idle = d }
}

// New wires the stages together.
func New(classifier Classifier, searcher Searcher, fallback Fallback, history *memory.Manager, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		searcher:   searcher,
		fallback:   fallback,
		history:    history,
		logger:     zerolog.Nop(),
		storeName:  "FreshMart",
		idle:       DefaultIdleTimeout,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession opens a new session and records the welcome message.
func (s *Service) StartSession(ctx context.Context) (string, memory.Message, error) {
	id := uuid.NewString()
	sess, err := s.acquire(id)
	if err != nil {
		return "", memory.Message{}, err
	}
	defer s.release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	welcome := memory.NewMessage(memory.RoleAssistant, prompts.WelcomeMessage(s.storeName))
	s.appendMessage(ctx, id, welcome)
	return id, welcome, nil
}

// Submit appends the user's message, runs the stages and returns the
// assistant messages produced for this turn. A message arriving while the
// session is busy waits for the running turn to finish; different sessions
// run concurrently.
func (s *Service) Submit(ctx context.Context, sessionID, text string) ([]memory.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySessionID
	}
	sess, err := s.acquire(sessionID)
	if err != nil {
		return nil, err
	}
	defer s.release(sess)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ctx.Err() != nil {
		return nil, errors.Wrapf(ErrSessionClosed, "session %s", sessionID)
	}

	log := s.logger.With().Str("session_id", sessionID).Logger()
	s.appendMessage(ctx, sessionID, memory.NewMessage(memory.RoleUser, text))

	reply, stage := s.respond(ctx, sess, text)
	s.metrics.Turn(string(stage))
	log.Info().Str("stage", string(stage)).Int("results", len(reply.Results)).Msg("Turn answered")

	return []memory.Message{reply}, nil
}

func (s *Service) respond(ctx context.Context, sess *session, text string) (memory.Message, Stage) {
	if i, canned := s.classifier.Respond(text); i != intent.None {
		return s.reply(ctx, sess.id, canned, nil), StageIntent
	}

	if utf8.RuneCountInString(matching.Normalize(text)) <= MinQueryLength {
		return s.reply(ctx, sess.id, prompts.ClarifyMessage, nil), StageClarify
	}

	if results := s.searcher.Search(text); len(results) > 0 {
		if results[0].Kind == catalog.KindFAQ {
			return s.reply(ctx, sess.id, prompts.FAQSummary(results[0].Content), results), StageFAQ
		}
		return s.reply(ctx, sess.id, prompts.ProductSummary(len(results), text), results), StageProduct
	}

	return s.fallbackReply(ctx, sess, text), StageFallback
}

func (s *Service) reply(ctx context.Context, sessionID, content string, results []catalog.Result) memory.Message {
	msg := memory.NewMessage(memory.RoleAssistant, content)
	msg.Results = results
	s.appendMessage(ctx, sessionID, msg)
	return msg
}

// fallbackReply records a thinking placeholder, waits for the fallback and
// replaces the placeholder by id. Ending the session cancels the call.
func (s *Service) fallbackReply(ctx context.Context, sess *session, text string) memory.Message {
	placeholder := memory.NewMessage(memory.RoleAssistant, prompts.ThinkingMessage)
	placeholder.Pending = true
	sess.pending.Store(placeholder.ID)
	s.appendMessage(ctx, sess.id, placeholder)

	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(sess.ctx, cancel)
	start := time.Now()
	content := s.fallback.Reply(callCtx, text)
	s.metrics.FallbackDuration(time.Since(start))
	stop()
	cancel()

	if strings.TrimSpace(content) == "" {
		content = prompts.FallbackMessage
	}

	final := placeholder
	final.Content = content
	final.Pending = false
	final.Timestamp = time.Now()
	sess.pending.Store("")

	if err := s.history.Replace(ctx, sess.id, final); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.id).Msg("⚠️ Failed to replace placeholder")
	}
	if s.listener != nil {
		s.listener.MessageReplaced(sess.id, final)
	}
	return final
}

// appendMessage records msg; storage failures are logged, never surfaced.
func (s *Service) appendMessage(ctx context.Context, sessionID string, msg memory.Message) {
	if err := s.history.Append(ctx, sessionID, msg); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("⚠️ Failed to save message")
	}
	if s.listener != nil {
		s.listener.MessageAppended(sessionID, msg)
	}
}

// acquire returns the session for id, creating it when needed, and marks it
// in use so the sweep leaves it alone.
func (s *Service) acquire(id string) (*session, error) {
	now := time.Now()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}

	var evicted []string
	if s.idle > 0 && now.Sub(s.lastSweep) >= s.idle {
		evicted = s.sweepLocked(now)
	}

	sess, ok := s.sessions[id]
	if !ok {
		ctx, cancel := context.WithCancel(context.Background())
		sess = &session{id: id, ctx: ctx, cancel: cancel}
		s.sessions[id] = sess
	}
	sess.refs++
	sess.lastUsed = now
	s.mu.Unlock()

	s.forget(evicted)
	return sess, nil
}

func (s *Service) release(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.refs--
	sess.lastUsed = time.Now()
}

// Sweep drops sessions that have been idle for longer than the idle timeout
// and returns how many were dropped. Sessions with a turn in progress or
// waiting are kept. Stored history is left to the store's own expiry.
func (s *Service) Sweep(now time.Time) int {
	if s.idle <= 0 {
		return 0
	}

	s.mu.Lock()
	evicted := s.sweepLocked(now)
	s.mu.Unlock()

	s.forget(evicted)
	return len(evicted)
}

func (s *Service) sweepLocked(now time.Time) []string {
	s.lastSweep = now

	var evicted []string
	for id, sess := range s.sessions {
		if sess.refs > 0 || now.Sub(sess.lastUsed) < s.idle {
			continue
		}
		sess.cancel()
		delete(s.sessions, id)
		evicted = append(evicted, id)
	}
	return evicted
}

func (s *Service) forget(ids []string) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		s.history.Forget(id)
	}
	s.logger.Debug().
		Int("evicted", len(ids)).
		Int("cached_buffers", s.history.GetActiveSessionCount()).
		Msg("🧹 Evicted idle sessions")
}

// RunJanitor sweeps idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if s.idle <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// History returns the recorded messages of a session.
func (s *Service) History(ctx context.Context, sessionID string) ([]memory.Message, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrEmptySessionID
	}
	return s.history.GetMessages(ctx, sessionID)
}

// Transcript returns the settled conversation as "User:"/"Assistant:" lines.
func (s *Service) Transcript(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrEmptySessionID
	}
	return s.history.GetFormattedHistory(ctx, sessionID)
}

// Pending returns the id of the placeholder currently awaiting a reply.
func (s *Service) Pending(sessionID string) (string, bool) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return "", false
	}

	id := sess.pendingID()
	return id, id != ""
}

// EndSession cancels any in-flight fallback call and drops the history.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if ok {
		sess.cancel()
		// Wait for a running turn to finish before clearing its history.
		sess.mu.Lock()
		defer sess.mu.Unlock()
	}
	return s.history.ClearSession(ctx, sessionID)
}

// ActiveSessions returns the number of open sessions.
func (s *Service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close cancels every session; later calls fail with ErrServiceClosed.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, sess := range s.sessions {
		sess.cancel()
		delete(s.sessions, id)
	}
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/catalog"
	"github.com/avvvet/storebuddy-assistant/internal/handlers"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
	"github.com/avvvet/storebuddy-assistant/internal/models"
)

// Sessions manages conversation lifecycles.
type Sessions interface {
	StartSession(ctx context.Context) (string, memory.Message, error)
	History(ctx context.Context, sessionID string) ([]memory.Message, error)
	Transcript(ctx context.Context, sessionID string) (string, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Searcher runs a catalog lookup without touching any session.
type Searcher interface {
	Search(query string) []catalog.Result
}

// HTTPConfig holds the dependencies of the HTTP API.
type HTTPConfig struct {
	Addr           string
	ServiceName    string
	RequestTimeout time.Duration
	Chat           *handlers.ChatHandler
	Sessions       Sessions
	Searcher       Searcher
	Metrics        http.Handler
}

// HTTPServer exposes the assistant as a JSON API.
type HTTPServer struct {
	server *http.Server
	cfg    HTTPConfig
	logger zerolog.Logger
}

func NewHTTPServer(cfg HTTPConfig, logger zerolog.Logger) *HTTPServer {
	s := &HTTPServer{cfg: cfg, logger: logger}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, e.g. for httptest.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": s.cfg.ServiceName})
	})
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.search)

		r.Post("/sessions", s.startSession)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Delete("/", s.endSession)
			r.Get("/messages", s.history)
			r.Post("/messages", s.submit)
		})
	})

	return r
}

func (s *HTTPServer) startSession(w http.ResponseWriter, r *http.Request) {
	id, welcome, err := s.cfg.Sessions.StartSession(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("❌ Failed to start session")
		writeError(w, http.StatusServiceUnavailable, models.ErrorSessionClosed, "failed to start session")
		return
	}
	writeJSON(w, http.StatusCreated, models.SessionResponse{SessionID: id, Welcome: welcome})
}

func (s *HTTPServer) submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, models.ErrorInvalidRequest, "invalid request body")
		return
	}

	request := &models.ChatRequest{SessionID: chi.URLParam(r, "sessionId"), Text: body.Text}
	response, err := s.cfg.Chat.ProcessChat(r.Context(), request)
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.ErrorInternal, err.Error())
		return
	}

	status := http.StatusOK
	if response.ErrorCode != nil {
		status = statusFor(*response.ErrorCode)
	}
	writeJSON(w, status, response)
}

func (s *HTTPServer) history(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	messages, err := s.cfg.Sessions.History(r.Context(), sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("❌ Failed to load history")
		writeError(w, http.StatusInternalServerError, models.ErrorInternal, "failed to load history")
		return
	}
	if messages == nil {
		messages = []memory.Message{}
	}
	transcript, err := s.cfg.Sessions.Transcript(r.Context(), sessionID)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("❌ Failed to load transcript")
		writeError(w, http.StatusInternalServerError, models.ErrorInternal, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, models.HistoryResponse{SessionID: sessionID, Messages: messages, Transcript: transcript})
}

func (s *HTTPServer) endSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if err := s.cfg.Sessions.EndSession(r.Context(), sessionID); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("❌ Failed to end session")
		writeError(w, http.StatusInternalServerError, models.ErrorInternal, "failed to end session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeError(w, http.StatusBadRequest, models.ErrorInvalidRequest, "q is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   query,
		"results": s.cfg.Searcher.Search(query),
	})
}

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.cfg.Addr).Msg("🌐 HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func statusFor(code string) int {
	switch code {
	case models.ErrorInvalidRequest:
		return http.StatusBadRequest
	case models.ErrorSessionClosed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error_code":    code,
		"error_message": message,
		"user_message":  handlers.ErrorUserMessage,
	})
}

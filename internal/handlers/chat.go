package handlers

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/assistant"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
	"github.com/avvvet/storebuddy-assistant/internal/models"
)

// ErrInvalidRequest marks a request rejected before it reached the assistant.
var ErrInvalidRequest = errors.New("invalid request")

// ErrorUserMessage is shown instead of any internal error text.
const ErrorUserMessage = "I'm sorry, I encountered an error processing your request. Please try again."

// Submitter runs one customer turn.
type Submitter interface {
	Submit(ctx context.Context, sessionID, text string) ([]memory.Message, error)
}

type ChatHandler struct {
	assistant Submitter
	logger    zerolog.Logger
}

func NewChatHandler(a Submitter, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: a,
		logger:    logger,
	}
}

// ProcessChat validates the request and submits it. Failures are reported
// in the response body; the returned error is always nil.
func (h *ChatHandler) ProcessChat(ctx context.Context, request *models.ChatRequest) (*models.ChatResponse, error) {
	// Validate request
	if err := h.validateRequest(request); err != nil {
		return h.createErrorResponse(request, models.ErrorInvalidRequest, err.Error()), nil
	}

	messages, err := h.assistant.Submit(ctx, request.SessionID, request.Text)
	if err != nil {
		code := models.ErrorInternal
		switch {
		case errors.Is(err, assistant.ErrEmptySessionID):
			code = models.ErrorInvalidRequest
		case errors.Is(err, assistant.ErrSessionClosed), errors.Is(err, assistant.ErrServiceClosed):
			code = models.ErrorSessionClosed
		}
		h.logger.Warn().Err(err).Str("session_id", request.SessionID).Str("code", code).Msg("⚠️ Chat request failed")
		return h.createErrorResponse(request, code, err.Error()), nil
	}

	h.logger.Debug().
		Str("session_id", request.SessionID).
		Int("messages", len(messages)).
		Msg("Chat processed")

	return &models.ChatResponse{
		SessionID: request.SessionID,
		Status:    models.StatusOK,
		Messages:  messages,
	}, nil
}

func (h *ChatHandler) validateRequest(request *models.ChatRequest) error {
	if request == nil {
		return errors.Wrap(ErrInvalidRequest, "request body is required")
	}
	if strings.TrimSpace(request.SessionID) == "" {
		return errors.Wrap(ErrInvalidRequest, "session_id is required")
	}
	if strings.TrimSpace(request.Text) == "" {
		return errors.Wrap(ErrInvalidRequest, "text is required")
	}
	return nil
}

func (h *ChatHandler) createErrorResponse(request *models.ChatRequest, errorCode, errorMessage string) *models.ChatResponse {
	var sessionID string
	if request != nil {
		sessionID = request.SessionID
	}
	return &models.ChatResponse{
		SessionID:    sessionID,
		Status:       models.StatusError,
		Messages:     []memory.Message{},
		UserMessage:  ErrorUserMessage,
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
}

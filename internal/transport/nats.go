package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/config"
	"github.com/avvvet/storebuddy-assistant/internal/handlers"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
	"github.com/avvvet/storebuddy-assistant/internal/models"
)

// NATSTransport answers chat requests on the request subject and publishes
// history changes to <event subject>.<session id>.
type NATSTransport struct {
	conn    *nats.Conn
	config  *config.Config
	handler *handlers.ChatHandler
	logger  zerolog.Logger
	publish func(subject string, data []byte) error
}

func NewNATSTransport(cfg *config.Config, logger zerolog.Logger) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name(cfg.ServiceName),
		nats.Timeout(cfg.NatsTimeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // Infinite reconnects
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to NATS")
	}

	logger.Info().Str("url", cfg.NatsURL).Msg("📡 Connected to NATS server")

	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		logger:  logger,
		publish: conn.Publish,
	}, nil
}

// Start subscribes to chat requests.
func (nt *NATSTransport) Start(handler *handlers.ChatHandler) error {
	nt.handler = handler

	_, err := nt.conn.Subscribe(nt.config.NatsRequestSubject, func(msg *nats.Msg) {
		nt.dispatch(msg.Data, msg.Respond)
	})
	if err != nil {
		return errors.Wrapf(err, "failed to subscribe to %s", nt.config.NatsRequestSubject)
	}

	nt.logger.Info().Str("subject", nt.config.NatsRequestSubject).Msg("👂 Subscribed to subject")
	return nil
}

// dispatch serves each request on its own goroutine so a slow fallback in
// one session does not hold up the subscription. Turns within a session are
// still ordered by the assistant.
func (nt *NATSTransport) dispatch(data []byte, respond func([]byte) error) {
	go nt.handleChatRequest(data, respond)
}

func (nt *NATSTransport) handleChatRequest(data []byte, respond func([]byte) error) {
	if err := respond(nt.handle(data)); err != nil {
		nt.logger.Error().Err(err).Msg("❌ Error sending response")
	}
}

// handle decodes a request, runs it and returns the encoded response.
func (nt *NATSTransport) handle(data []byte) []byte {
	var request models.ChatRequest
	if err := json.Unmarshal(data, &request); err != nil {
		nt.logger.Warn().Err(err).Msg("⚠️ Error parsing request")
		return nt.encode(errorResponse(&request, models.ErrorInvalidRequest, "Invalid request format"))
	}

	nt.logger.Debug().Str("session_id", request.SessionID).Msg("Processing chat request")

	ctx, cancel := context.WithTimeout(context.Background(), nt.config.NatsTimeout)
	defer cancel()

	response, err := nt.handler.ProcessChat(ctx, &request)
	if err != nil {
		nt.logger.Error().Err(err).Str("session_id", request.SessionID).Msg("❌ Error processing chat")
		response = errorResponse(&request, models.ErrorInternal, err.Error())
	}

	return nt.encode(response)
}

func (nt *NATSTransport) encode(response *models.ChatResponse) []byte {
	data, err := json.Marshal(response)
	if err != nil {
		nt.logger.Error().Err(err).Msg("❌ Failed to marshal response")
		data, _ = json.Marshal(errorResponse(&models.ChatRequest{SessionID: response.SessionID}, models.ErrorInternal, "encode failure"))
	}
	return data
}

func errorResponse(request *models.ChatRequest, errorCode, errorMessage string) *models.ChatResponse {
	return &models.ChatResponse{
		SessionID:    request.SessionID,
		Status:       models.StatusError,
		Messages:     []memory.Message{},
		UserMessage:  handlers.ErrorUserMessage,
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
}

// MessageAppended publishes a new history entry, placeholders included.
func (nt *NATSTransport) MessageAppended(sessionID string, msg memory.Message) {
	nt.publishEvent(models.SessionEvent{SessionID: sessionID, Type: models.EventAppended, Message: msg})
}

// MessageReplaced publishes the final text that replaced a placeholder.
func (nt *NATSTransport) MessageReplaced(sessionID string, msg memory.Message) {
	nt.publishEvent(models.SessionEvent{SessionID: sessionID, Type: models.EventReplaced, Message: msg})
}

func (nt *NATSTransport) publishEvent(event models.SessionEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		nt.logger.Error().Err(err).Msg("❌ Failed to marshal event")
		return
	}

	subject := nt.config.NatsEventSubject + "." + event.SessionID
	if err := nt.publish(subject, data); err != nil {
		nt.logger.Warn().Err(err).Str("subject", subject).Msg("⚠️ Failed to publish event")
	}
}

func (nt *NATSTransport) Close() error {
	if nt.conn != nil {
		if err := nt.conn.Drain(); err != nil {
			nt.conn.Close()
		}
		nt.logger.Info().Msg("NATS connection closed")
	}
	return nil
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avvvet/storebuddy-assistant/internal/app"
	"github.com/avvvet/storebuddy-assistant/internal/assistant"
	"github.com/avvvet/storebuddy-assistant/internal/config"
	"github.com/avvvet/storebuddy-assistant/internal/handlers"
	"github.com/avvvet/storebuddy-assistant/internal/observability"
	"github.com/avvvet/storebuddy-assistant/internal/transport"
)

func main() {
	// Load .env file if it exists (for development)
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.ServiceName,
	})
	if envErr != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	logger.Info().Msg("🚀 Starting StoreBuddy Assistant...")
	logger.Info().
		Str("store", cfg.StoreName).
		Str("catalog", cfg.CatalogPath).
		Str("fallback_provider", cfg.FallbackProvider).
		Msg("📋 Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// NATS is optional; without it the HTTP API is the only entry point.
	var natsTransport *transport.NATSTransport
	var opts []assistant.Option
	if cfg.NatsURL != "" {
		nt, err := transport.NewNATSTransport(cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("❌ Failed to initialize NATS transport")
		}
		natsTransport = nt
		opts = append(opts, assistant.WithListener(nt))
	}

	a, err := app.Build(ctx, cfg, logger, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("❌ Failed to build assistant")
	}

	chatHandler := handlers.NewChatHandler(a.Assistant, logger)

	// Idle sessions are also swept on access; the janitor covers quiet periods.
	go a.Assistant.RunJanitor(ctx, cfg.SessionTTL/2)

	if natsTransport != nil {
		if err := natsTransport.Start(chatHandler); err != nil {
			logger.Fatal().Err(err).Msg("❌ Failed to start NATS transport")
		}
	}

	var httpServer *transport.HTTPServer
	if cfg.HTTPAddr != "" {
		httpServer = transport.NewHTTPServer(transport.HTTPConfig{
			Addr:           cfg.HTTPAddr,
			ServiceName:    cfg.ServiceName,
			RequestTimeout: cfg.HTTPRequestTimeout,
			Chat:           chatHandler,
			Sessions:       a.Assistant,
			Searcher:       a.Engine,
			Metrics:        a.Metrics.Handler(),
		}, logger)

		go func() {
			if err := httpServer.Start(); err != nil {
				logger.Error().Err(err).Msg("❌ HTTP server stopped")
				stop()
			}
		}()
	}

	if natsTransport == nil && httpServer == nil {
		logger.Fatal().Msg("❌ Neither NATS_URL nor HTTP_ADDR is set; nothing to serve")
	}

	logger.Info().Msg("✅ StoreBuddy Assistant is running!")

	<-ctx.Done()
	logger.Info().Msg("🔄 Shutting down gracefully...")
	logger.Info().
		Int("sessions", a.Assistant.ActiveSessions()).
		Int("cached_buffers", a.History.GetActiveSessionCount()).
		Msg("📊 Final session count")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Error shutting down HTTP server")
		}
	}

	if natsTransport != nil {
		if err := natsTransport.Close(); err != nil {
			logger.Warn().Err(err).Msg("⚠️ Error closing NATS transport")
		}
	}

	if err := a.Close(); err != nil {
		logger.Warn().Err(err).Msg("⚠️ Error closing session store")
	}

	logger.Info().Msg("👋 StoreBuddy Assistant stopped")
}

// Package app builds the assistant's components from configuration.
package app

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/assistant"
	"github.com/avvvet/storebuddy-assistant/internal/catalog"
	"github.com/avvvet/storebuddy-assistant/internal/config"
	"github.com/avvvet/storebuddy-assistant/internal/fallback"
	"github.com/avvvet/storebuddy-assistant/internal/intent"
	"github.com/avvvet/storebuddy-assistant/internal/llm"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
	"github.com/avvvet/storebuddy-assistant/internal/observability"
)

// App holds the wired components.
type App struct {
	Classifier *intent.Classifier
	Engine     *catalog.Engine
	Fallback   *fallback.Dispatcher
	History    *memory.Manager
	Assistant  *assistant.Service
	Metrics    *observability.Metrics
}

// Build loads the catalog, selects the session store and the fallback
// provider, and assembles the assistant. A missing fallback credential is
// logged; the assistant then answers unmatched messages with an apology.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts ...assistant.Option) (*App, error) {
	store := cfg.StoreInfo()

	classifier, err := intent.NewClassifier(store, intent.WithGreetingMaxLen(cfg.GreetingMaxLen))
	if err != nil {
		return nil, errors.Wrap(err, "build classifier")
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}
	engine := catalog.NewEngine(cat, catalog.WithCurrency(cfg.CurrencySymbol))
	logger.Info().
		Str("path", cfg.CatalogPath).
		Int("products", len(cat.Products)).
		Int("faqs", len(cat.FAQs)).
		Msg("📦 Catalog loaded")

	generator, err := llm.New(ctx, cfg.LLMSettings())
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.FallbackProvider).Msg("⚠️ Fallback provider unavailable, using apology replies")
		generator = nil
	}
	dispatcher := fallback.NewDispatcher(generator,
		fallback.WithStoreName(store.Name),
		fallback.WithTimeout(cfg.FallbackTimeout),
		fallback.WithMaxTokens(cfg.FallbackMaxTokens),
		fallback.WithLogger(logger),
	)

	sessionStore, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	history := memory.NewManager(sessionStore, logger)

	metrics := observability.NewMetrics()
	opts = append([]assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithMetrics(metrics),
		assistant.WithStoreName(store.Name),
		assistant.WithIdleTimeout(cfg.SessionTTL),
	}, opts...)

	return &App{
		Classifier: classifier,
		Engine:     engine,
		Fallback:   dispatcher,
		History:    history,
		Assistant:  assistant.New(classifier, engine, dispatcher, history, opts...),
		Metrics:    metrics,
	}, nil
}

func newStore(cfg *config.Config, logger zerolog.Logger) (memory.Store, error) {
	if cfg.RedisURL == "" {
		logger.Info().Dur("ttl", cfg.SessionTTL).Msg("💾 Using in-process session store")
		return memory.NewInMemoryStore(cfg.SessionTTL), nil
	}

	redisStore, err := memory.NewRedisStore(cfg.RedisURL, cfg.SessionTTL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}

	logger.Info().Dur("ttl", cfg.SessionTTL).Msg("💾 Redis connected")
	return redisStore, nil
}

// Close ends every session and closes the session store.
func (a *App) Close() error {
	a.Assistant.Close()
	return a.History.Close()
}

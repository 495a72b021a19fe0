package transport

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/storebuddy-assistant/internal/assistant"
	"github.com/avvvet/storebuddy-assistant/internal/catalog"
	"github.com/avvvet/storebuddy-assistant/internal/intent"
	"github.com/avvvet/storebuddy-assistant/internal/memory"
)

type cannedFallback struct{ reply string }

func (f cannedFallback) Reply(context.Context, string) string { return f.reply }

// blockingFallback holds every call until release is closed.
type blockingFallback struct {
	entered chan struct{}
	release chan struct{}
}

func (f *blockingFallback) Reply(ctx context.Context, _ string) string {
	f.entered <- struct{}{}
	select {
	case <-f.release:
		return "generated"
	case <-ctx.Done():
		return "timed out"
	}
}

func newTestAssistant(t *testing.T, opts ...assistant.Option) (*assistant.Service, *catalog.Engine) {
	t.Helper()
	return newTestAssistantWithFallback(t, cannedFallback{reply: "generated"}, opts...)
}

func newTestAssistantWithFallback(t *testing.T, fb assistant.Fallback, opts ...assistant.Option) (*assistant.Service, *catalog.Engine) {
	t.Helper()

	classifier, err := intent.NewClassifier(intent.DefaultStoreInfo())
	require.NoError(t, err)

	cat, err := catalog.New([]catalog.Entry{
		{ID: "1", Name: "Toned Milk 1L", Category: "Dairy", Price: decimal.NewFromInt(56), Aisle: 1, Shelf: "A1"},
		{ID: "2", Name: "Men Cotton T-Shirt", Category: "Clothing", Price: decimal.NewFromInt(499), Aisle: 4, Shelf: "B2"},
	}, []catalog.FAQ{
		{Question: "Is there a pharmacy in the store?", Answer: "Next to the entrance."},
	})
	require.NoError(t, err)

	engine := catalog.NewEngine(cat)
	history := memory.NewManager(memory.NewInMemoryStore(time.Hour), zerolog.Nop())
	return assistant.New(classifier, engine, fb, history, opts...), engine
}

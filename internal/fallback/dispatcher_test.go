package fallback

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/storebuddy-assistant/internal/llm"
	"github.com/avvvet/storebuddy-assistant/internal/prompts"
)

type generatorFunc func(ctx context.Context, req *llm.Request) (*llm.Response, error)

func (f generatorFunc) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func TestDispatcher_NoCredential(t *testing.T) {
	d := NewDispatcher(nil)
	assert.False(t, d.Configured())

	var text string
	var err error
	assert.NotPanics(t, func() { text, err = d.Dispatch(context.Background(), "any jokes") })
	assert.Equal(t, prompts.FallbackMessage, text)
	assert.True(t, errors.Is(err, ErrMissingCredential))

	assert.NotEmpty(t, d.Reply(context.Background(), "any jokes"))
}

func TestDispatcher_Success(t *testing.T) {
	var seen *llm.Request
	d := NewDispatcher(generatorFunc(func(_ context.Context, req *llm.Request) (*llm.Response, error) {
		seen = req
		return &llm.Response{Content: " Try our mango lassi! 🥭 "}, nil
	}), WithStoreName("CornerShop"), WithMaxTokens(120))

	text, err := d.Dispatch(context.Background(), "something refreshing")
	require.NoError(t, err)
	assert.Equal(t, " Try our mango lassi! 🥭 ", text)

	require.NotNil(t, seen)
	assert.Contains(t, seen.Prompt, `User asked: "something refreshing"`)
	assert.Contains(t, seen.Prompt, "CornerShop")
	assert.Equal(t, 120, seen.MaxTokens)
}

func TestDispatcher_ReplyIsVerbatim(t *testing.T) {
	tests := []string{
		`"Amul" butter is great, also try "Britannia"`,
		`"Fresh bread arrives at 7 AM"`,
		"Line one\n\nLine two",
	}

	for _, content := range tests {
		t.Run(content, func(t *testing.T) {
			d := NewDispatcher(generatorFunc(func(context.Context, *llm.Request) (*llm.Response, error) {
				return &llm.Response{Content: content}, nil
			}))

			text, err := d.Dispatch(context.Background(), "any butter")
			require.NoError(t, err)
			assert.Equal(t, content, text)
		})
	}
}

func TestDispatcher_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  generatorFunc
	}{
		{"transport error", func(context.Context, *llm.Request) (*llm.Response, error) {
			return nil, errors.New("dial tcp: connection refused")
		}},
		{"empty payload", func(context.Context, *llm.Request) (*llm.Response, error) {
			return &llm.Response{Content: "  "}, nil
		}},
		{"nil response", func(context.Context, *llm.Request) (*llm.Response, error) {
			return nil, nil
		}},
		{"panic", func(context.Context, *llm.Request) (*llm.Response, error) {
			panic("provider bug")
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(tc.gen)
			text, err := d.Dispatch(context.Background(), "hmm")
			assert.Equal(t, prompts.FallbackMessage, text)
			assert.True(t, errors.Is(err, ErrTransport))
			assert.NotContains(t, text, "connection refused")
		})
	}
}

func TestDispatcher_Timeout(t *testing.T) {
	var calls atomic.Int32
	d := NewDispatcher(generatorFunc(func(ctx context.Context, _ *llm.Request) (*llm.Response, error) {
		calls.Add(1)
		<-ctx.Done()
		return nil, ctx.Err()
	}), WithTimeout(20*time.Millisecond))

	start := time.Now()
	text := d.Reply(context.Background(), "slow question")
	assert.Equal(t, prompts.FallbackMessage, text)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, int32(1), calls.Load(), "no retries")
}

func TestDispatcher_CancelledByCaller(t *testing.T) {
	d := NewDispatcher(generatorFunc(func(ctx context.Context, _ *llm.Request) (*llm.Response, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	text, err := d.Dispatch(ctx, "anything")
	assert.Equal(t, prompts.FallbackMessage, text)
	assert.True(t, errors.Is(err, ErrTransport))
}

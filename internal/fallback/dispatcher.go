// Package fallback asks a text generation service for a reply when nothing
// local matched. It never returns an error to its caller's user: every
// failure turns into a fixed apology.
package fallback

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog"

	"github.com/avvvet/storebuddy-assistant/internal/llm"
	"github.com/avvvet/storebuddy-assistant/internal/prompts"
)

var (
	// ErrMissingCredential means no generator is configured.
	ErrMissingCredential = errors.New("fallback credential not configured")
	// ErrTransport covers failed calls, error responses and empty payloads.
	ErrTransport = errors.New("fallback call failed")
)

const (
	DefaultTimeout     = 20 * time.Second
	DefaultMaxTokens   = 300
	DefaultTemperature = 0.7
)

type Dispatcher struct {
	generator   llm.Generator
	storeName   string
	timeout     time.Duration
	maxTokens   int
	temperature float64
	logger      zerolog.Logger
}

type Option func(*Dispatcher)

func WithStoreName(name string) Option {
	return func(d *Dispatcher) { d.storeName = name }
}

func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

func WithMaxTokens(n int) Option {
	return func(d *Dispatcher) { d.maxTokens = n }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher returns a Dispatcher. A nil generator is allowed and makes
// every call short-circuit to the apology.
func NewDispatcher(generator llm.Generator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		generator:   generator,
		storeName:   "FreshMart",
		timeout:     DefaultTimeout,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Configured reports whether a generator is available.
func (d *Dispatcher) Configured() bool {
	return d.generator != nil
}

// Reply returns the generated text for userText, or the apology.
func (d *Dispatcher) Reply(ctx context.Context, userText string) string {
	text, err := d.Dispatch(ctx, userText)
	if err != nil {
		d.logger.Warn().Err(err).Msg("⚠️ Fallback degraded to apology")
	}
	return text
}

// Dispatch issues one generation request without retries. The returned
// text is never empty; on failure it is the apology and err says why.
func (d *Dispatcher) Dispatch(ctx context.Context, userText string) (text string, err error) {
	if d.generator == nil {
		return prompts.FallbackMessage, ErrMissingCredential
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = prompts.FallbackMessage, errors.Wrap(ErrTransport, fmt.Sprintf("panic: %v", r))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.generator.Generate(ctx, &llm.Request{
		Prompt:      prompts.BuildFallbackPrompt(d.storeName, userText),
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
	})
	if err != nil {
		return prompts.FallbackMessage, errors.Wrap(ErrTransport, err.Error())
	}
	if resp == nil {
		return prompts.FallbackMessage, errors.Wrap(ErrTransport, "nil response")
	}

	reply := resp.Content
	if strings.TrimSpace(reply) == "" {
		return prompts.FallbackMessage, errors.Wrap(ErrTransport, "empty reply")
	}

	if resp.Usage != nil {
		d.logger.Debug().
			Int("input_tokens", resp.Usage.InputTokens).
			Int("output_tokens", resp.Usage.OutputTokens).
			Msg("Fallback reply generated")
	}
	return reply, nil
}

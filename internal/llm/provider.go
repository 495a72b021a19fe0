package llm

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	// ErrMissingAPIKey is returned when a provider is built without a credential.
	ErrMissingAPIKey = errors.New("llm api key not configured")
	// ErrEmptyResponse is returned when the provider answered without text.
	ErrEmptyResponse = errors.New("llm returned no text")
)

// Generator defines the interface for text generation providers
type Generator interface {
	Generate(ctx context.Context, request *Request) (*Response, error)
}

// Request represents the structured request to the LLM
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Response represents the raw response from the LLM
type Response struct {
	Content string
	Usage   *Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider        string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
}

// New builds the configured provider. A provider whose key is empty yields
// ErrMissingAPIKey before any network call is attempted.
func New(ctx context.Context, s Settings) (Generator, error) {
	switch s.Provider {
	case ProviderAnthropic, "":
		p, err := NewAnthropicProvider(s.AnthropicAPIKey, s.AnthropicModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderGemini:
		p, err := NewGeminiProvider(ctx, s.GeminiAPIKey, s.GeminiModel)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, errors.Errorf("unknown llm provider %q", s.Provider)
	}
}

package llm

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
)

// ModelProvider adapts any langchaingo model to Generator.
type ModelProvider struct {
	model llms.Model
}

// NewAnthropicProvider returns a Generator backed by the Anthropic API.
func NewAnthropicProvider(apiKey, model string) (*ModelProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []anthropic.Option{anthropic.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, anthropic.WithModel(model))
	}
	m, err := anthropic.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create anthropic client")
	}
	return NewModelProvider(m), nil
}

// NewModelProvider wraps an existing langchaingo model.
func NewModelProvider(model llms.Model) *ModelProvider {
	return &ModelProvider{model: model}
}

func (p *ModelProvider) Generate(ctx context.Context, request *Request) (*Response, error) {
	var opts []llms.CallOption
	if request.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(request.MaxTokens))
	}
	opts = append(opts, llms.WithTemperature(request.Temperature))

	resp, err := p.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, request.Prompt),
	}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := resp.Choices[0]
	if strings.TrimSpace(choice.Content) == "" {
		return nil, ErrEmptyResponse
	}

	return &Response{
		Content: choice.Content,
		Usage: &Usage{
			InputTokens:  intInfo(choice.GenerationInfo, "InputTokens"),
			OutputTokens: intInfo(choice.GenerationInfo, "OutputTokens"),
		},
	}, nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

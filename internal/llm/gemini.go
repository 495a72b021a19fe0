package llm

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider returns a Generator backed by the Gemini API.
func NewGeminiProvider(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	return newGeminiProvider(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}, model)
}

func newGeminiProvider(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, request *Request) (*Response, error) {
	temp := float32(request.Temperature)
	config := &genai.GenerateContentConfig{Temperature: &temp}
	if request.MaxTokens > 0 {
		config.MaxOutputTokens = int32(request.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(request.Prompt), config)
	if err != nil {
		return nil, errors.Wrap(err, "generate content")
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyResponse
	}

	out := &Response{Content: text}
	if md := resp.UsageMetadata; md != nil {
		out.Usage = &Usage{InputTokens: int(md.PromptTokenCount), OutputTokens: int(md.CandidatesTokenCount)}
	}
	return out, nil
}

package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"

	// defaultAnthropicMaxTokens bounds one annotated file; the API requires a value.
	defaultAnthropicMaxTokens = 8192
)

// AnthropicGenerator streams from the Anthropic Messages API.
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

var _ Generator = (*AnthropicGenerator)(nil)

func NewAnthropicGenerator(apiKey, model, baseURL string) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if model == "" {
		model = defaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (g *AnthropicGenerator) Name() string { return "anthropic:" + g.model }

func (g *AnthropicGenerator) Stream(ctx context.Context, prompt string) (<-chan Chunk, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	stream := g.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: defaultAnthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			text, ok := delta.Delta.AsAny().(anthropic.TextDelta)
			if !ok {
				continue
			}
			if !sendText(ctx, out, text.Text) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			sendErr(ctx, out, fmt.Errorf("anthropic: %w", err))
		}
	}()
	return out, nil
}

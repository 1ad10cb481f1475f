package llm

import (
	"context"
	"fmt"

	"github.com/GoSim-25-26J-441/code-commenter/config"
)

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.GenerationConfig) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		gen, err = NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderOpenAI:
		gen, err = NewOpenAIGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderAnthropic:
		gen, err = NewAnthropicGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case config.ProviderOllama:
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("ollama: base url is required")
		}
		gen = NewOllamaGenerator(cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

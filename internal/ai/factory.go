package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-reader/internal/config"
)

// llamaCppAPIKey is sent to llama.cpp, which ignores it but the SDK requires one.
const llamaCppAPIKey = "sk-no-key-required"

// NewProvider builds the provider selected by cfg.AI.Provider.
func NewProvider(ctx context.Context, cfg *config.Config) (Provider, error) {
	switch cfg.AI.Provider {
	case config.ProviderZhipu:
		if cfg.Zhipu.APIKey == "" {
			return nil, errors.New("ZHIPU_API_KEY environment variable is required")
		}
		return NewChatProvider(config.ProviderZhipu, cfg.Zhipu.URL, cfg.Zhipu.APIKey, cfg.Zhipu.Model), nil
	case config.ProviderOpenAI:
		if cfg.OpenAI.Token == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required")
		}
		return NewChatProvider(config.ProviderOpenAI, "", cfg.OpenAI.Token, cfg.OpenAI.Model), nil
	case config.ProviderLlamaCpp:
		return NewChatProvider(config.ProviderLlamaCpp, cfg.LlamaCpp.URL, llamaCppAPIKey, cfg.LlamaCpp.Model), nil
	case config.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required")
		}
		p, err := NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, fmt.Errorf("creating Gemini provider: %w", err)
		}
		return p, nil
	case config.ProviderOllama:
		return NewOllamaProvider(cfg.Ollama.URL, cfg.Ollama.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.AI.Provider)
	}
}

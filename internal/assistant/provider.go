package assistant

import (
	"fmt"

	"github.com/banca-dev/banca/internal/config"
)

// Provider names accepted in assistant.provider.
const (
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// NewGenerator builds the Generator selected by cfg.
func NewGenerator(cfg config.AssistantConfig, apiKey string) (Generator, error) {
	switch cfg.Provider {
	case "", ProviderClaude:
		return &ClaudeCLI{Model: cfg.Model}, nil
	case ProviderGemini:
		return &Gemini{APIKey: apiKey, Model: cfg.Model}, nil
	case ProviderNone:
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
}

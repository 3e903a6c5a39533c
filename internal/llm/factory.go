package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a correlation backend based on configuration.
// An empty provider name returns (nil, nil): LLM correlation disabled.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "openrouter":
		return NewOpenRouterProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, openrouter, ollama)", config.Provider)
	}
}

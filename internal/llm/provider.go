// Package llm drives the correlation backends: large-language-model
// providers that turn collected per-platform OSINT documents into one
// structured correlation document, plus the narrative intelligence briefs.
package llm

import (
	"context"

	"github.com/shadowhorn/shadowhorn/internal/model"
)

// Provider is one correlation backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Complete sends a prompt and returns the raw model text.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is the provider-agnostic prompt envelope.
type CompletionRequest struct {
	// System primes the model's role; empty uses the provider default.
	System string

	// Prompt is the user-turn content.
	Prompt string

	// Model overrides the configured model name when set.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// CompletionResponse is the raw model output before any cleaning.
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "openrouter", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI/OpenRouter.
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, Ollama).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// MaxTokens for response generation.
	MaxTokens int
}

// DefaultConfig returns sensible defaults (provider disabled).
func DefaultConfig() Config {
	return Config{
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:  mc.Provider,
		Model:     mc.Model,
		APIKey:    mc.APIKey,
		BaseURL:   mc.BaseURL,
		Timeout:   mc.Timeout,
		MaxTokens: mc.MaxTokens,
	}
}

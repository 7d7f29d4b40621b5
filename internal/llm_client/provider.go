// Package llm_client provides the completion backends the action engine
// talks to. Backends are constructed explicitly and handed to the engine;
// there is no ambient active provider.
package llm_client

import (
	"context"
	"fmt"
	"strings"
)

type Config struct {
	Backend    string
	Model      string
	OllamaHost string
}

// Provider is one completion backend. Stream invokes fn once per received
// text chunk; returning an error from fn aborts the stream with that error.
type Provider interface {
	Name() string
	DefaultModel() string
	Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error)
	Stream(ctx context.Context, systemPrompt, userMessage string, maxTokens int, fn func(chunk string) error) error
}

// New builds the provider selected by cfg.Backend, defaulting to gemini.
func New(cfg Config) (Provider, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = "gemini"
	}
	switch backend {
	case "gemini":
		return newGeminiProvider(cfg)
	case "ollama":
		return newOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM backend: %s", cfg.Backend)
	}
}

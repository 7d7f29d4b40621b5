package llm_client

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"
)

type ollamaProvider struct {
	client *api.Client
	model  string
}

const ollamaDefault = "phi4:latest"

func newOllamaProvider(cfg Config) (*ollamaProvider, error) {
	c, err := api.ClientFromEnvironment()
	if err != nil {
		host := cfg.OllamaHost
		if host == "" {
			host = os.Getenv("OLLAMA_HOST")
		}
		if host == "" {
			host = "http://localhost:11434"
		}
		u, uerr := url.Parse(host)
		if uerr != nil {
			return nil, fmt.Errorf("ollama: bad host %q: %w", host, uerr)
		}
		c = api.NewClient(u, nil)
	}
	model := ollamaDefault
	if strings.TrimSpace(cfg.Model) != "" {
		model = cfg.Model
	}
	return &ollamaProvider{client: c, model: model}, nil
}

func (p *ollamaProvider) Name() string         { return "ollama" }
func (p *ollamaProvider) DefaultModel() string { return ollamaDefault }

func (p *ollamaProvider) request(systemPrompt, userMessage string, maxTokens int, stream bool) *api.GenerateRequest {
	req := &api.GenerateRequest{
		Model:  p.model,
		Prompt: userMessage,
		System: systemPrompt,
		Stream: &stream,
	}
	if maxTokens > 0 {
		req.Options = map[string]any{"num_predict": maxTokens}
	}
	return req
}

func (p *ollamaProvider) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	var out strings.Builder
	err := p.client.Generate(ctx, p.request(systemPrompt, userMessage, maxTokens, false), func(gr api.GenerateResponse) error {
		out.WriteString(gr.Response)
		return nil
	})
	if err != nil {
		return "", mapOllamaError(err)
	}
	return out.String(), nil
}

func (p *ollamaProvider) Stream(ctx context.Context, systemPrompt, userMessage string, maxTokens int, fn func(chunk string) error) error {
	if p.client == nil {
		return ErrNotInitialized
	}
	var fnErr error
	err := p.client.Generate(ctx, p.request(systemPrompt, userMessage, maxTokens, true), func(gr api.GenerateResponse) error {
		if gr.Response == "" {
			return nil
		}
		if cbErr := fn(gr.Response); cbErr != nil {
			fnErr = cbErr
			return cbErr
		}
		return nil
	})
	if err != nil {
		// a callback abort is the caller's own error, not a remote failure
		if fnErr != nil {
			return fnErr
		}
		return mapOllamaError(err)
	}
	return nil
}

package llm_client

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

const geminiDefault = "gemini-2.0-flash"

func newGeminiProvider(cfg Config) (*geminiProvider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	c, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client init: %w", err)
	}
	model := geminiDefault
	if strings.TrimSpace(cfg.Model) != "" {
		model = cfg.Model
	}
	return &geminiProvider{client: c, model: model}, nil
}

func (p *geminiProvider) Name() string         { return "gemini" }
func (p *geminiProvider) DefaultModel() string { return geminiDefault }

func (p *geminiProvider) generateConfig(systemPrompt string, maxTokens int) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	return cfg
}

func (p *geminiProvider) Complete(ctx context.Context, systemPrompt, userMessage string, maxTokens int) (string, error) {
	if p.client == nil {
		return "", ErrNotInitialized
	}
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(userMessage), p.generateConfig(systemPrompt, maxTokens))
	if err != nil {
		return "", mapGeminiError(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Message: "gemini: empty response"}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (p *geminiProvider) Stream(ctx context.Context, systemPrompt, userMessage string, maxTokens int, fn func(chunk string) error) error {
	if p.client == nil {
		return ErrNotInitialized
	}
	for resp, err := range p.client.Models.GenerateContentStream(ctx, p.model, genai.Text(userMessage), p.generateConfig(systemPrompt, maxTokens)) {
		if err != nil {
			return mapGeminiError(err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
			continue
		}
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			if err := fn(part.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

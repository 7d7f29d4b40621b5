package llm_client

import (
	"context"
	"errors"
	"fmt"

	"github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

var ErrNotInitialized = errors.New("llm provider is not initialized")

// ProviderError is a remote completion failure. Message is surfaced to the
// user verbatim.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

// mapGeminiError converts every error shape the genai SDK produces into a
// *ProviderError, except context cancellation which passes through so callers
// can distinguish a user cancel from a remote failure.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return &ProviderError{Message: err.Error()}
}

// mapOllamaError is the ollama counterpart of mapGeminiError.
func mapOllamaError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		msg := statusErr.ErrorMessage
		if msg == "" {
			msg = statusErr.Status
		}
		return &ProviderError{Code: statusErr.StatusCode, Message: msg}
	}
	return &ProviderError{Message: err.Error()}
}

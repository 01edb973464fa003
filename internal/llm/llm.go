package llm

import (
	"context"
	"errors"
)

// Client abstracts text-completion providers used for question generation
// and answer evaluation.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion request.
type Request struct {
	// Operation names the caller for logs and metrics ("evaluate", "generate_questions").
	Operation   string
	System      string
	Prompt      string
	JSON        bool
	Temperature *float32
	MaxTokens   int
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, Request) (string, error) {
	return "", ErrNotConfigured
}

// Configured reports whether c can reach a real provider.
func Configured(c Client) bool {
	if c == nil {
		return false
	}
	switch c.(type) {
	case PlaceholderClient, *PlaceholderClient:
		return false
	}
	return true
}

// Float32 is a helper for optional temperatures.
func Float32(v float32) *float32 {
	return &v
}

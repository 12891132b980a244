package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for resume generation and parsing.
type Client interface {
	GenerateResume(ctx context.Context, input GenerateInput) (string, error)
	ParseResume(ctx context.Context, input ParseInput) (json.RawMessage, error)
}

// GenerateInput carries the source profile and the target job.
// Profile is serialized to JSON inside the prompt.
type GenerateInput struct {
	Profile        any
	JobTitle       string
	JobDescription string
}

// ParseInput carries an uploaded resume. Providers that accept documents use PDF,
// text-only providers use the extracted Text.
type ParseInput struct {
	PDF  []byte
	Text string
}

const (
	DefaultGeminiModel = "gemini-2.0-flash-001"
	DefaultOpenAIModel = "gpt-4o-mini"

	Temperature     float32 = 0.5
	MaxOutputTokens int32   = 20000
)

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")

	// ErrEmptyResponse is returned when the provider answers with no text.
	ErrEmptyResponse = errors.New("empty LLM response")
)

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

func (PlaceholderClient) GenerateResume(ctx context.Context, input GenerateInput) (string, error) {
	return "", ErrNotImplemented
}

func (PlaceholderClient) ParseResume(ctx context.Context, input ParseInput) (json.RawMessage, error) {
	return nil, ErrNotImplemented
}

var _ Client = PlaceholderClient{}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/telemetry"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models contentGenerator
	model  string
}

// NewClient constructs a Gemini client. An empty model selects llm.DefaultGeminiModel.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return newClient(gc.Models, model), nil
}

func newClient(models contentGenerator, model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = llm.DefaultGeminiModel
	}
	return &Client{models: models, model: model}
}

func (c *Client) GenerateResume(ctx context.Context, input llm.GenerateInput) (string, error) {
	prompt, err := llm.LatexUserPrompt(input)
	if err != nil {
		return "", err
	}
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return c.generate(ctx, "generate", contents, c.config(llm.LatexSystemPrompt(), ""))
}

func (c *Client) ParseResume(ctx context.Context, input llm.ParseInput) (json.RawMessage, error) {
	parts := []*genai.Part{genai.NewPartFromText(llm.ParseUserPrompt)}
	switch {
	case len(input.PDF) > 0:
		parts = append(parts, genai.NewPartFromBytes(input.PDF, "application/pdf"))
	case strings.TrimSpace(input.Text) != "":
		parts = append(parts, genai.NewPartFromText(input.Text))
	default:
		return nil, fmt.Errorf("resume document is empty")
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	text, err := c.generate(ctx, "parse", contents, c.config(llm.ResumeParsePrompt(), "application/json"))
	if err != nil {
		return nil, err
	}
	raw := llm.StripJSONFences(text)
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("invalid JSON from Gemini")
	}
	return json.RawMessage(raw), nil
}

func (c *Client) config(system, mimeType string) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(llm.Temperature),
		MaxOutputTokens:   llm.MaxOutputTokens,
		ResponseMIMEType:  mimeType,
	}
}

func (c *Client) generate(ctx context.Context, op string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", op, err)
	}
	fields := map[string]any{
		"provider":    "gemini",
		"model":       c.model,
		"op":          op,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
	}
	telemetry.Info("llm.response", fields)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)

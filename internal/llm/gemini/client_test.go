package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"resume-tailor/internal/llm"
)

type fakeModels struct {
	reply    string
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.reply}}},
		}},
	}, nil
}

func TestGenerateResumeUsesDefaults(t *testing.T) {
	fake := &fakeModels{reply: "\\documentclass{article}"}
	c := newClient(fake, "")

	out, err := c.GenerateResume(context.Background(), llm.GenerateInput{
		Profile:  map[string]string{"name": "Jane"},
		JobTitle: "Backend Engineer",
	})
	if err != nil {
		t.Fatalf("GenerateResume: %v", err)
	}
	if out != "\\documentclass{article}" {
		t.Fatalf("unexpected output %q", out)
	}
	if fake.model != llm.DefaultGeminiModel {
		t.Fatalf("expected default model, got %q", fake.model)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != 0.5 {
		t.Fatalf("expected temperature 0.5, got %v", fake.config.Temperature)
	}
	if fake.config.MaxOutputTokens != 20000 {
		t.Fatalf("expected 20000 max tokens, got %d", fake.config.MaxOutputTokens)
	}
	if !strings.Contains(fake.contents[0].Parts[0].Text, "Job Title: Backend Engineer") {
		t.Fatalf("prompt missing job title: %q", fake.contents[0].Parts[0].Text)
	}
}

func TestParseResumeSendsPDFInline(t *testing.T) {
	fake := &fakeModels{reply: "```json\n{\"name\":\"Jane\"}\n```"}
	c := newClient(fake, "gemini-test")

	raw, err := c.ParseResume(context.Background(), llm.ParseInput{PDF: []byte("%PDF-1.4")})
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if string(raw) != `{"name":"Jane"}` {
		t.Fatalf("unexpected json %s", raw)
	}
	parts := fake.contents[0].Parts
	if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "application/pdf" {
		t.Fatalf("expected inline pdf part, got %+v", parts)
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response type, got %q", fake.config.ResponseMIMEType)
	}
}

func TestParseResumeErrors(t *testing.T) {
	tests := []struct {
		name  string
		fake  *fakeModels
		input llm.ParseInput
	}{
		{name: "empty input", fake: &fakeModels{reply: "{}"}},
		{name: "invalid json", fake: &fakeModels{reply: "not json"}, input: llm.ParseInput{Text: "resume"}},
		{name: "empty reply", fake: &fakeModels{reply: "  "}, input: llm.ParseInput{Text: "resume"}},
		{name: "provider error", fake: &fakeModels{err: errors.New("quota")}, input: llm.ParseInput{Text: "resume"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newClient(tt.fake, "").ParseResume(context.Background(), tt.input); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

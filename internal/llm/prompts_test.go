package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLatexUserPromptIncludesJobAndProfile(t *testing.T) {
	prompt, err := LatexUserPrompt(GenerateInput{
		Profile:        map[string]string{"name": "Jane"},
		JobTitle:       " Backend Engineer ",
		JobDescription: "Go services",
	})
	if err != nil {
		t.Fatalf("LatexUserPrompt: %v", err)
	}
	for _, want := range []string{"Job Title: Backend Engineer\n", "Job Description: Go services", `"name": "Jane"`, "ATS-friendliness"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q:\n%s", want, prompt)
		}
	}
}

func TestSystemPromptsLoaded(t *testing.T) {
	if !strings.Contains(LatexSystemPrompt(), `\definecolor{cvblue}{RGB}{0,102,204}`) {
		t.Fatalf("latex system prompt missing color rule")
	}
	if !strings.HasSuffix(ResumeParsePrompt(), "return an empty JSON object {}.") {
		t.Fatalf("parse prompt not loaded")
	}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: ` {"a":1} `, want: `{"a":1}`},
		{name: "json fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", in: "```\n{}\n```", want: `{}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := StripJSONFences(tt.in); got != tt.want {
				t.Fatalf("StripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlaceholderClient(t *testing.T) {
	var c Client = PlaceholderClient{}
	if _, err := c.GenerateResume(context.Background(), GenerateInput{}); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := c.ParseResume(context.Background(), ParseInput{}); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

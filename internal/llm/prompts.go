package llm

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

var (
	//go:embed prompts/latex_system.txt
	latexSystemPrompt string
	//go:embed prompts/latex_user.tmpl
	latexUserTemplate string
	//go:embed prompts/resume_parse.txt
	resumeParsePrompt string

	latexUser = template.Must(template.New("latex_user").Parse(latexUserTemplate))
)

// ParseUserPrompt accompanies the uploaded document.
const ParseUserPrompt = "Extract the resume content from the provided PDF and convert it to JSON."

// LatexSystemPrompt returns the LaTeX formatting and tailoring rules.
func LatexSystemPrompt() string {
	return strings.TrimSpace(latexSystemPrompt)
}

// ResumeParsePrompt returns the JSON extraction instructions.
func ResumeParsePrompt() string {
	return strings.TrimSpace(resumeParsePrompt)
}

// LatexUserPrompt renders the job and profile into the generation request.
func LatexUserPrompt(input GenerateInput) (string, error) {
	data, err := json.MarshalIndent(input.Profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	var b strings.Builder
	err = latexUser.Execute(&b, struct {
		JobTitle       string
		JobDescription string
		ResumeData     string
	}{
		JobTitle:       strings.TrimSpace(input.JobTitle),
		JobDescription: strings.TrimSpace(input.JobDescription),
		ResumeData:     string(data),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}

// StripJSONFences removes markdown code fences some models wrap around JSON.
func StripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

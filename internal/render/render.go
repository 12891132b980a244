// Package render turns generated LaTeX into PDF bytes with pdflatex.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"resume-tailor/internal/shared/telemetry"
)

const (
	DefaultBin     = "pdflatex"
	DefaultTimeout = 30 * time.Second

	jobName    = "resume"
	logTailLen = 2000
)

var (
	// ErrTimeout is returned when pdflatex does not finish in time.
	ErrTimeout = errors.New("PDF generation timed out")

	// ErrEmptyLatex is returned for blank documents.
	ErrEmptyLatex = errors.New("latex content is empty")
)

// CleanLatex strips markdown fences around model output.
func CleanLatex(s string) string {
	s = strings.ReplaceAll(s, "```latex", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Renderer runs pdflatex in a scratch directory per call.
type Renderer struct {
	Bin     string
	Timeout time.Duration
	TempDir string

	// Command builds the process; tests replace it.
	Command func(ctx context.Context, name string, arg ...string) *exec.Cmd
}

func New(bin string, timeout time.Duration) *Renderer {
	if strings.TrimSpace(bin) == "" {
		bin = DefaultBin
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Renderer{Bin: bin, Timeout: timeout, Command: exec.CommandContext}
}

// Render compiles latex and returns the PDF bytes.
func (r *Renderer) Render(ctx context.Context, latex string) ([]byte, error) {
	source := CleanLatex(latex)
	if source == "" {
		return nil, ErrEmptyLatex
	}

	dir, err := os.MkdirTemp(r.TempDir, "render-*")
	if err != nil {
		return nil, fmt.Errorf("render temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	texPath := filepath.Join(dir, jobName+".tex")
	if err := os.WriteFile(texPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("write tex: %w", err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := r.Command
	if command == nil {
		command = exec.CommandContext
	}
	cmd := command(runCtx, r.Bin, "-interaction=nonstopmode", "-output-directory="+dir, texPath)
	cmd.Dir = dir
	cmd.WaitDelay = time.Second

	start := time.Now()
	out, runErr := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		telemetry.Error("render.timeout", map[string]any{"timeout_ms": timeout.Milliseconds()})
		return nil, ErrTimeout
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runErr != nil {
		detail := logTail(filepath.Join(dir, jobName+".log"))
		if detail == "" {
			detail = tail(string(out))
		}
		return nil, fmt.Errorf("PDF generation failed: %w\nLog: %s", runErr, detail)
	}

	pdf, err := os.ReadFile(filepath.Join(dir, jobName+".pdf"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.New("PDF generation failed: output file not found")
		}
		return nil, err
	}
	telemetry.Info("render.complete", map[string]any{
		"bytes":       len(pdf),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return pdf, nil
}

func logTail(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return tail(string(data))
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= logTailLen {
		return s
	}
	return s[len(s)-logTailLen:]
}

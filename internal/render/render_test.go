package render

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestHelperProcess stands in for pdflatex. It is only active when invoked by fakeCommand.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	var outDir, texPath string
	for _, arg := range args[1:] {
		switch {
		case strings.HasPrefix(arg, "-output-directory="):
			outDir = strings.TrimPrefix(arg, "-output-directory=")
		case strings.HasSuffix(arg, ".tex"):
			texPath = arg
		}
	}
	source, _ := os.ReadFile(texPath)
	switch os.Getenv("HELPER_MODE") {
	case "fail":
		_ = os.WriteFile(filepath.Join(outDir, "resume.log"), []byte("! Undefined control sequence."), 0o600)
		os.Exit(1)
	case "sleep":
		time.Sleep(5 * time.Second)
	case "nooutput":
	default:
		_ = os.WriteFile(filepath.Join(outDir, "resume.pdf"), append([]byte("%PDF-1.4\n"), source...), 0o600)
	}
	os.Exit(0)
}

func fakeCommand(mode string) func(ctx context.Context, name string, arg ...string) *exec.Cmd {
	return func(ctx context.Context, name string, arg ...string) *exec.Cmd {
		args := append([]string{"-test.run=TestHelperProcess", "--", name}, arg...)
		cmd := exec.CommandContext(ctx, os.Args[0], args...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
		return cmd
	}
}

func newTestRenderer(t *testing.T, mode string, timeout time.Duration) *Renderer {
	t.Helper()
	r := New("", timeout)
	r.TempDir = t.TempDir()
	r.Command = fakeCommand(mode)
	return r
}

func TestCleanLatex(t *testing.T) {
	in := "```latex\n\\documentclass{article}\n```\n"
	if got := CleanLatex(in); got != `\documentclass{article}` {
		t.Fatalf("unexpected cleaned latex %q", got)
	}
}

func TestRenderReturnsPDF(t *testing.T) {
	r := newTestRenderer(t, "ok", time.Minute)
	pdf, err := r.Render(context.Background(), "```latex\n\\documentclass{article}\n```")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF-1.4\n\\documentclass{article}") {
		t.Fatalf("unexpected pdf %q", pdf)
	}
}

func TestRenderFailures(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		latex   string
		timeout time.Duration
		check   func(error) bool
	}{
		{name: "empty", mode: "ok", latex: "```latex\n```", timeout: time.Minute, check: func(err error) bool { return errors.Is(err, ErrEmptyLatex) }},
		{name: "exit status carries log", mode: "fail", latex: "x", timeout: time.Minute, check: func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "Undefined control sequence")
		}},
		{name: "missing output", mode: "nooutput", latex: "x", timeout: time.Minute, check: func(err error) bool {
			return err != nil && strings.Contains(err.Error(), "output file not found")
		}},
		{name: "timeout", mode: "sleep", latex: "x", timeout: 200 * time.Millisecond, check: func(err error) bool { return errors.Is(err, ErrTimeout) }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, tt.mode, tt.timeout)
			_, err := r.Render(context.Background(), tt.latex)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	r := New(" ", 0)
	if r.Bin != DefaultBin || r.Timeout != DefaultTimeout {
		t.Fatalf("unexpected defaults: %+v", r)
	}
}

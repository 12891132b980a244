package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInfoWritesJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Info("resume.generated", map[string]any{"resume_id": int64(42), "user_id": int64(1)})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["msg"] != "resume.generated" {
		t.Fatalf("expected msg resume.generated, got %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("expected level info, got %v", payload["level"])
	}
	if payload["resume_id"] != float64(42) {
		t.Fatalf("expected resume_id 42, got %v", payload["resume_id"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts field")
	}
}

func TestErrorFlattensErrorValues(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Error("render.failed", map[string]any{"error": errors.New("pdflatex exited 1")})

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected level error, got %v", payload["level"])
	}
	if payload["error"] != "pdflatex exited 1" {
		t.Fatalf("unexpected error field: %v", payload["error"])
	}
}

// Package theme persists the client's light/dark preference.
package theme

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
)

// Key is the slot holding the preference.
const Key = "theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse accepts "light" or "dark", case-insensitively.
func Parse(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Backend persists named slots.
type Backend interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// Store reads and writes the preference. Detect supplies the operating-system
// preference used when nothing is stored.
type Store struct {
	backend Backend
	Detect  func() Theme
}

func NewStore(backend Backend) *Store {
	return &Store{backend: backend, Detect: DetectFromEnv}
}

// DetectFromEnv reads the background color index from COLORFGBG ("fg;bg").
// Indexes 0-6 and 8 are dark backgrounds. Without a hint it returns Light.
func DetectFromEnv() Theme {
	v := os.Getenv("COLORFGBG")
	if v == "" {
		return Light
	}
	parts := strings.Split(v, ";")
	bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil {
		return Light
	}
	if bg <= 6 || bg == 8 {
		return Dark
	}
	return Light
}

func (s *Store) fallback() Theme {
	if s.Detect == nil {
		return Light
	}
	return s.Detect()
}

// Get returns the stored preference or the detected default. Unreadable or
// invalid values are logged and yield the default.
func (s *Store) Get(ctx context.Context) Theme {
	if s.backend == nil {
		return s.fallback()
	}
	rc, err := s.backend.Open(ctx, Key)
	if err != nil {
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("theme.load_failed", map[string]any{"error": err})
		}
		return s.fallback()
	}
	defer rc.Close()
	raw, err := io.ReadAll(io.LimitReader(rc, 64))
	if err != nil {
		telemetry.Warn("theme.load_failed", map[string]any{"error": err})
		return s.fallback()
	}
	t, err := Parse(string(raw))
	if err != nil {
		telemetry.Warn("theme.load_failed", map[string]any{"error": err})
		return s.fallback()
	}
	return t
}

// Set persists t.
func (s *Store) Set(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	if s.backend == nil {
		return nil
	}
	if _, err := s.backend.SaveWithKey(ctx, Key, "text/plain", bytes.NewReader([]byte(t))); err != nil {
		telemetry.Warn("theme.save_failed", map[string]any{"error": err})
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// Toggle flips the current preference and persists it. The new theme is
// returned even when saving fails.
func (s *Store) Toggle(ctx context.Context) (Theme, error) {
	next := s.Get(ctx).Opposite()
	return next, s.Set(ctx, next)
}

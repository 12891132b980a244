// Package session holds the identity of the person using the client. It is
// initialized from a persisted slot, updated on login, signup and settings
// changes, and cleared on logout.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"resume-tailor/internal/apiclient"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
)

const (
	// Key is the slot holding the serialized current user.
	Key = "session.json"
	// StateDirEnv overrides where client state is persisted.
	StateDirEnv = "RESUMECTL_STATE_DIR"
)

// ErrNotIdentified is returned by UserID when nobody is logged in.
var ErrNotIdentified = errors.New("not identified: please log in first")

// Backend persists named slots.
type Backend interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// Record is the persisted form of the session.
type Record struct {
	User        apiclient.User `json:"user"`
	AccessToken string         `json:"access_token,omitempty"`
}

// DefaultStateDir returns RESUMECTL_STATE_DIR or <user config dir>/resumectl.
func DefaultStateDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(StateDirEnv)); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, "resumectl"), nil
}

// Session is safe for concurrent use.
type Session struct {
	backend Backend

	mu  sync.RWMutex
	rec *Record
}

// New returns an empty session persisted through backend.
func New(backend Backend) *Session {
	return &Session{backend: backend}
}

// Load initializes the session from the persisted slot. Unreadable or corrupt
// state is logged and leaves the session unauthenticated.
func (s *Session) Load(ctx context.Context) bool {
	rec, err := s.read(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = nil
	if err != nil {
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("session.load_failed", map[string]any{"error": err})
		}
		return false
	}
	if rec.User.ID <= 0 {
		telemetry.Warn("session.load_failed", map[string]any{"error": "stored user has no id"})
		return false
	}
	s.rec = &rec
	return true
}

func (s *Session) read(ctx context.Context) (Record, error) {
	if s.backend == nil {
		return Record{}, object.ErrNotFound
	}
	rc, err := s.backend.Open(ctx, Key)
	if err != nil {
		return Record{}, err
	}
	defer rc.Close()
	var rec Record
	if err := json.NewDecoder(rc).Decode(&rec); err != nil {
		return Record{}, fmt.Errorf("decode session: %w", err)
	}
	return rec, nil
}

// Set records a login or signup. The in-memory session is updated even when
// persisting fails; the failure is logged and returned.
func (s *Session) Set(ctx context.Context, sess apiclient.Session) error {
	rec := Record{User: sess.User, AccessToken: sess.AccessToken}
	s.mu.Lock()
	s.rec = &rec
	s.mu.Unlock()
	return s.persist(ctx, rec)
}

// SetUser refreshes the cached user after a settings update, keeping the token.
func (s *Session) SetUser(ctx context.Context, user apiclient.User) error {
	s.mu.Lock()
	if s.rec == nil {
		s.mu.Unlock()
		return ErrNotIdentified
	}
	rec := *s.rec
	rec.User = user
	s.rec = &rec
	s.mu.Unlock()
	return s.persist(ctx, rec)
}

func (s *Session) persist(ctx context.Context, rec Record) error {
	if s.backend == nil {
		return nil
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := s.backend.SaveWithKey(ctx, Key, "application/json", bytes.NewReader(body)); err != nil {
		telemetry.Warn("session.save_failed", map[string]any{"error": err})
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear logs out: the in-memory value and the persisted slot are removed.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.rec = nil
	s.mu.Unlock()
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Delete(ctx, Key); err != nil {
		telemetry.Warn("session.clear_failed", map[string]any{"error": err})
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Authenticated reports whether a user is present. It does not check the
// token against the service.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec != nil
}

// UserID returns the current user's id or ErrNotIdentified.
func (s *Session) UserID() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil || s.rec.User.ID <= 0 {
		return 0, ErrNotIdentified
	}
	return s.rec.User.ID, nil
}

// User returns the cached user record.
func (s *Session) User() (apiclient.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return apiclient.User{}, false
	}
	return s.rec.User, true
}

// Token returns the access token, or "" when unauthenticated.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rec == nil {
		return ""
	}
	return s.rec.AccessToken
}

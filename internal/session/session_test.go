package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resume-tailor/internal/apiclient"
	"resume-tailor/internal/shared/storage/object/local"
	"resume-tailor/internal/shared/telemetry"
)

type failingBackend struct{}

func (failingBackend) SaveWithKey(context.Context, string, string, io.Reader) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingBackend) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("permission denied")
}

func (failingBackend) Delete(context.Context, string) error {
	return errors.New("permission denied")
}

func testSession() apiclient.Session {
	return apiclient.Session{
		User:        apiclient.User{ID: 7, Name: "Ada", Email: "ada@example.com"},
		AccessToken: "tok",
	}
}

func TestSetPersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := New(local.New(dir))
	if s.Load(ctx) {
		t.Fatalf("expected empty state to load unauthenticated")
	}
	if err := s.Set(ctx, testSession()); err != nil {
		t.Fatalf("set: %v", err)
	}

	reloaded := New(local.New(dir))
	if !reloaded.Load(ctx) {
		t.Fatalf("expected session to survive reload")
	}
	id, err := reloaded.UserID()
	if err != nil || id != 7 {
		t.Fatalf("expected user id 7, got %d (%v)", id, err)
	}
	if reloaded.Token() != "tok" {
		t.Fatalf("expected token to be restored, got %q", reloaded.Token())
	}
}

func TestClearRemovesSlot(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s := New(local.New(dir))
	if err := s.Set(ctx, testSession()); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("expected unauthenticated after clear")
	}
	if _, err := os.Stat(filepath.Join(dir, Key)); !os.IsNotExist(err) {
		t.Fatalf("expected slot to be removed, stat err %v", err)
	}
	if _, err := s.UserID(); !errors.Is(err, ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified, got %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestCorruptSlotDegradesToLoggedOut(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, Key), []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	s := New(local.New(dir))
	if s.Load(context.Background()) {
		t.Fatalf("expected corrupt state to load unauthenticated")
	}
	if !strings.Contains(logs.String(), "session.load_failed") {
		t.Fatalf("expected load failure to be logged, got %q", logs.String())
	}
}

func TestBackendFailuresAreReported(t *testing.T) {
	restore := telemetry.SetOutput(io.Discard)
	defer restore()
	ctx := context.Background()

	s := New(failingBackend{})
	if s.Load(ctx) {
		t.Fatalf("expected unreadable state to load unauthenticated")
	}
	if err := s.Set(ctx, testSession()); err == nil {
		t.Fatalf("expected save error")
	}
	if !s.Authenticated() {
		t.Fatalf("expected in-memory session despite save failure")
	}
	if err := s.Clear(ctx); err == nil {
		t.Fatalf("expected clear error")
	}
	if s.Authenticated() {
		t.Fatalf("expected in-memory session cleared despite delete failure")
	}
}

func TestSetUserKeepsToken(t *testing.T) {
	ctx := context.Background()
	s := New(local.New(t.TempDir()))
	if err := s.SetUser(ctx, apiclient.User{ID: 7}); !errors.Is(err, ErrNotIdentified) {
		t.Fatalf("expected ErrNotIdentified before login, got %v", err)
	}
	if err := s.Set(ctx, testSession()); err != nil {
		t.Fatalf("set: %v", err)
	}
	phone := "555-0100"
	if err := s.SetUser(ctx, apiclient.User{ID: 7, Name: "Ada", Phone: &phone}); err != nil {
		t.Fatalf("set user: %v", err)
	}
	u, ok := s.User()
	if !ok || u.Phone == nil || *u.Phone != phone {
		t.Fatalf("expected updated phone, got %+v", u)
	}
	if s.Token() != "tok" {
		t.Fatalf("expected token kept, got %q", s.Token())
	}
}

func TestDefaultStateDirHonorsEnv(t *testing.T) {
	t.Setenv(StateDirEnv, "/tmp/resumectl-state")
	dir, err := DefaultStateDir()
	if err != nil || dir != "/tmp/resumectl-state" {
		t.Fatalf("expected env dir, got %q (%v)", dir, err)
	}
}

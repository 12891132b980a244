package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"resume-tailor/internal/shared/storage/object"
)

func TestSaveWithKeyAndOpen(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	n, err := store.SaveWithKey(ctx, "rendered/abc/42.pdf", "application/pdf", strings.NewReader("%PDF-1.4 body"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n != int64(len("%PDF-1.4 body")) {
		t.Fatalf("unexpected size %d", n)
	}

	rc, err := store.Open(ctx, "rendered/abc/42.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "%PDF-1.4 body" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOpenMissingReturnsNotFound(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Open(context.Background(), "rendered/none.pdf")
	if !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	for _, key := range []string{"../escape.pdf", "/abs/path.pdf", "."} {
		if _, err := store.SaveWithKey(context.Background(), key, "", strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	if _, err := store.SaveWithKey(ctx, "session.json", "application/json", strings.NewReader("{}")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete(ctx, "session.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "session.json"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "session.json"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

package users

import (
	"context"
	"errors"
	"testing"

	"resume-tailor/internal/shared/patch"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryRepo())
}

func TestSignupNormalizesEmailAndHashesPassword(t *testing.T) {
	svc := newTestService(t)
	user, err := svc.Signup(context.Background(), SignupInput{
		Name:     " Jane ",
		Email:    " Jane@Example.com ",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "jane@example.com" || user.Name != "Jane" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatalf("expected bcrypt hash, got %q", user.PasswordHash)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to default")
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@example.com", Password: "secret1"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_, err := svc.Signup(ctx, SignupInput{Name: "B", Email: "A@example.com", Password: "secret2"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{name: "missing name", in: SignupInput{Email: "a@example.com", Password: "secret1"}, field: "name"},
		{name: "bad email", in: SignupInput{Name: "A", Email: "not-an-email", Password: "secret1"}, field: "email"},
		{name: "short password", in: SignupInput{Name: "A", Email: "a@example.com", Password: "abc"}, field: "password"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTestService(t).Signup(context.Background(), tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, verr.Field)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput match")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	created, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	user, err := svc.Login(ctx, "A@Example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, user.ID)
	}
	if _, err := svc.Login(ctx, "a@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	phone := "555-0100"
	user, err := svc.Signup(ctx, SignupInput{Name: "A", Email: "a@example.com", Password: "secret1", Phone: &phone})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty patch to be invalid, got %v", err)
	}
	if _, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{Password: patch.Clear[string]()}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected null password to be invalid, got %v", err)
	}

	updated, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{Password: patch.Set("another1")})
	if err != nil {
		t.Fatalf("UpdateSettings password: %v", err)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("expected phone to be unchanged, got %v", updated.Phone)
	}
	if _, err := svc.Login(ctx, "a@example.com", "another1"); err != nil {
		t.Fatalf("expected new password to work: %v", err)
	}

	cleared, err := svc.UpdateSettings(ctx, user.ID, SettingsPatch{Phone: patch.Clear[string]()})
	if err != nil {
		t.Fatalf("UpdateSettings phone: %v", err)
	}
	if cleared.Phone != nil {
		t.Fatalf("expected phone cleared, got %q", *cleared.Phone)
	}

	if _, err := svc.UpdateSettings(ctx, 999, SettingsPatch{Phone: patch.Set("1")}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindOrCreateByEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	first, err := svc.FindOrCreateByEmail(ctx, "G@Example.com", "Gee")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail: %v", err)
	}
	second, err := svc.FindOrCreateByEmail(ctx, "g@example.com", "Other")
	if err != nil {
		t.Fatalf("FindOrCreateByEmail: %v", err)
	}
	if first.ID != second.ID || second.Name != "Gee" {
		t.Fatalf("expected same user, got %+v and %+v", first, second)
	}
}

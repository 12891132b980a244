package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resume-tailor/internal/shared/patch"
)

const minPasswordLen = 6

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// SettingsPatch is a partial update. Absent fields are left unchanged.
type SettingsPatch struct {
	Password patch.Field[string]
	Phone    patch.Field[string]
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return User{}, invalid("name", "field required")
	}
	if err := validateEmail(email); err != nil {
		return User{}, err
	}
	if err := validatePassword(in.Password); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		Name:         name,
		Email:        email,
		Phone:        trimmedPtr(in.Phone),
		PasswordHash: string(hash),
		CreatedAt:    in.CreatedAt.UTC(),
	}
	if in.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	return s.Repo.Create(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID int64) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if userID <= 0 {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateSettings applies a password and/or phone change.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, p SettingsPatch) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if p.Password.IsZero() && p.Phone.IsZero() {
		return User{}, invalid("body", "no settings to update")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if p.Password.Present {
		password, ok := p.Password.Get()
		if !ok {
			return User{}, invalid("password", "password cannot be cleared")
		}
		if err := validatePassword(password); err != nil {
			return User{}, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if p.Phone.Present {
		phone, _ := p.Phone.Get()
		user.Phone = trimmedPtr(&phone)
	}
	return s.Repo.Update(ctx, user)
}

// FindOrCreateByEmail returns the user for an externally verified email,
// creating one with an unusable random password when missing.
func (s *Service) FindOrCreateByEmail(ctx context.Context, email, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return User{}, err
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	secret := make([]byte, 24)
	if _, err := rand.Read(secret); err != nil {
		return User{}, fmt.Errorf("random password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(secret)), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	if strings.TrimSpace(name) == "" {
		name = email
	}
	user, err = s.Repo.Create(ctx, User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	})
	if errors.Is(err, ErrConflict) {
		return s.Repo.GetByEmail(ctx, email)
	}
	return user, err
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("email", "field required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return invalid("email", "value is not a valid email address")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return invalid("password", "field required")
	}
	if len(password) < minPasswordLen {
		return invalid("password", fmt.Sprintf("ensure this value has at least %d characters", minPasswordLen))
	}
	return nil
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

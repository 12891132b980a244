package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

// UserLookup resolves profile owners.
type UserLookup interface {
	GetByID(ctx context.Context, userID int64) (users.User, error)
}

type Service struct {
	Repo  Repo
	Users UserLookup
	LLM   llm.Client
	Now   func() time.Time
}

func NewService(repo Repo, userLookup UserLookup, client llm.Client) *Service {
	return &Service{Repo: repo, Users: userLookup, LLM: client, Now: time.Now}
}

func (s *Service) Create(ctx context.Context, profile Profile) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	profile.ProfileName = strings.TrimSpace(profile.ProfileName)
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	if profile.ProfileName == "" || profile.Name == "" || profile.Email == "" {
		return Profile{}, ErrInvalidInput
	}
	if err := s.ensureUser(ctx, profile.UserID); err != nil {
		return Profile{}, err
	}
	for _, field := range []**string{
		&profile.Phone, &profile.Address, &profile.Links, &profile.Education, &profile.Experience,
		&profile.Skills, &profile.Certifications, &profile.Projects, &profile.Languages, &profile.Hobbies,
	} {
		*field = blankToNil(*field)
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = s.now()
	}
	return s.Repo.Create(ctx, profile)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Profile, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("profiles service not configured")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// GetOwned returns the profile when it belongs to userID, otherwise ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, userID, profileID int64) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("profiles service not configured")
	}
	profile, err := s.Repo.GetByID(ctx, profileID)
	if err != nil {
		return Profile{}, err
	}
	if profile.UserID != userID {
		return Profile{}, ErrNotFound
	}
	return profile, nil
}

// ParseResume turns an uploaded PDF into a draft profile.
func (s *Service) ParseResume(ctx context.Context, data []byte, contentType string) (ResumeData, error) {
	if s == nil || s.LLM == nil {
		return ResumeData{}, errors.New("profiles service not configured")
	}
	if err := extract.CheckPDF(contentType, data); err != nil {
		return ResumeData{}, err
	}

	text, err := extract.PDFText(ctx, data)
	if err != nil {
		telemetry.Warn("resume.parse.text_unavailable", map[string]any{"error": err, "bytes": len(data)})
	}
	raw, err := s.LLM.ParseResume(ctx, llm.ParseInput{PDF: data, Text: text})
	if err != nil {
		metrics.IncResumeParseFailed()
		return ResumeData{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	resume, err := DecodeResumeData(raw)
	if err != nil {
		metrics.IncResumeParseFailed()
		return ResumeData{}, err
	}
	metrics.IncResumesParsed()
	return resume, nil
}

// DecodeResumeData decodes model output and normalizes it: list fields of
// strings are de-duplicated in order and empty values become null.
func DecodeResumeData(raw json.RawMessage) (ResumeData, error) {
	var resume ResumeData
	if err := json.Unmarshal([]byte(llm.StripJSONFences(string(raw))), &resume); err != nil {
		return ResumeData{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	resume.Name = blankToNil(resume.Name)
	resume.Email = blankToNil(resume.Email)
	resume.Phone = blankToNil(resume.Phone)
	resume.Address = blankToNil(resume.Address)
	resume.Links = dedupe(resume.Links)
	resume.Languages = dedupe(resume.Languages)
	resume.Skills = dedupe(resume.Skills)
	resume.Certifications = nilIfEmpty(resume.Certifications)
	resume.Projects = nilIfEmpty(resume.Projects)
	resume.Education = nilIfEmpty(resume.Education)
	resume.Experience = nilIfEmpty(resume.Experience)
	return resume, nil
}

func (s *Service) ensureUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrUserNotFound
	}
	if s.Users == nil {
		return nil
	}
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nilIfEmpty[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	return values
}

func blankToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

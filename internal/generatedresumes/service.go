package generatedresumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"resume-tailor/internal/llm"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/queue"
	"resume-tailor/internal/render"
	"resume-tailor/internal/shared/metrics"
	"resume-tailor/internal/shared/storage/object"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/users"
)

// ProfileLookup resolves source profiles scoped to their owner.
type ProfileLookup interface {
	GetOwned(ctx context.Context, userID, profileID int64) (profiles.Profile, error)
}

// Renderer compiles LaTeX into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, latex string) ([]byte, error)
}

// Service contains business logic for generated resumes.
type Service struct {
	Repo      Repo
	Users     profiles.UserLookup
	Profiles  ProfileLookup
	LLM       llm.Client
	Renderer  Renderer
	Store     object.ObjectStore
	Publisher queue.Publisher
	Now       func() time.Time
}

// Generate tailors a profile to a job and stores the LaTeX result.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (GeneratedResume, error) {
	if s.Repo == nil || s.Profiles == nil || s.LLM == nil {
		return GeneratedResume{}, errors.New("missing dependencies")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.JobTitle = strings.TrimSpace(in.JobTitle)
	in.JobDescription = strings.TrimSpace(in.JobDescription)
	if in.UserID <= 0 || in.ProfileID <= 0 || in.Name == "" || in.JobTitle == "" || in.JobDescription == "" {
		return GeneratedResume{}, ErrInvalidInput
	}
	if s.Users != nil {
		if _, err := s.Users.GetByID(ctx, in.UserID); err != nil {
			if errors.Is(err, users.ErrNotFound) {
				return GeneratedResume{}, ErrUserNotFound
			}
			return GeneratedResume{}, err
		}
	}
	profile, err := s.Profiles.GetOwned(ctx, in.UserID, in.ProfileID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return GeneratedResume{}, ErrProfileNotFound
		}
		return GeneratedResume{}, err
	}

	start := time.Now()
	latex, err := s.LLM.GenerateResume(ctx, llm.GenerateInput{
		Profile:        profile,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
	})
	metrics.ObserveGenerationMs(float64(time.Since(start).Milliseconds()))
	latex = render.CleanLatex(latex)
	if err == nil && latex == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		metrics.IncResumeGenerationFailed()
		return GeneratedResume{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	resume, err := s.Repo.Create(ctx, GeneratedResume{
		UserID:         in.UserID,
		UserResumeID:   profile.ID,
		Name:           in.Name,
		JobTitle:       in.JobTitle,
		JobDescription: in.JobDescription,
		NewResume:      &latex,
		CreatedAt:      createdAt.UTC(),
	})
	if err != nil {
		return GeneratedResume{}, err
	}
	metrics.IncResumesGenerated()

	if s.Publisher != nil {
		msg := queue.NewRenderMessage(resume.UserID, resume.ID, in.RequestID, s.now())
		if err := s.Publisher.Publish(ctx, msg); err != nil {
			// the PDF is rendered on first download instead
			telemetry.Warn("resume.render.enqueue_failed", map[string]any{
				"resume_id": resume.ID,
				"error":     err,
			})
		}
	}
	return resume, nil
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]GeneratedResume, error) {
	if s.Repo == nil {
		return nil, errors.New("missing dependencies")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// GetOwned returns the resume when it belongs to userID, otherwise ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, userID, resumeID int64) (GeneratedResume, error) {
	if s.Repo == nil {
		return GeneratedResume{}, errors.New("missing dependencies")
	}
	resume, err := s.Repo.GetByID(ctx, resumeID)
	if err != nil {
		return GeneratedResume{}, err
	}
	if resume.UserID != userID {
		return GeneratedResume{}, ErrNotFound
	}
	return resume, nil
}

// PDF returns the rendered PDF for the resume, from the object store when cached.
func (s *Service) PDF(ctx context.Context, userID, resumeID int64) ([]byte, error) {
	resume, err := s.GetOwned(ctx, userID, resumeID)
	if err != nil {
		return nil, err
	}
	pdf, _, err := s.ensurePDF(ctx, resume)
	return pdf, err
}

// EnsurePDF renders and caches the PDF unless it is already cached. It reports
// whether the artifact was already present.
func (s *Service) EnsurePDF(ctx context.Context, userID, resumeID int64) (bool, error) {
	resume, err := s.GetOwned(ctx, userID, resumeID)
	if err != nil {
		return false, err
	}
	_, cached, err := s.ensurePDF(ctx, resume)
	return cached, err
}

// PDFKey is the object store key of a rendered resume.
func PDFKey(userID, resumeID int64) string {
	return fmt.Sprintf("rendered/%d/%d.pdf", userID, resumeID)
}

// PDFFileName is the download name of a rendered resume.
func PDFFileName(userID, resumeID int64) string {
	return fmt.Sprintf("resume_%d_%d.pdf", userID, resumeID)
}

func (s *Service) ensurePDF(ctx context.Context, resume GeneratedResume) ([]byte, bool, error) {
	if strings.TrimSpace(render.CleanLatex(resume.Latex())) == "" {
		return nil, false, ErrEmptyContent
	}
	key := PDFKey(resume.UserID, resume.ID)

	if s.Store != nil {
		pdf, err := s.readCached(ctx, key)
		if err == nil {
			metrics.IncPDFCacheHits()
			return pdf, true, nil
		}
		if !errors.Is(err, object.ErrNotFound) {
			telemetry.Warn("resume.pdf.cache_read_failed", map[string]any{"resume_id": resume.ID, "error": err})
		}
	}

	if s.Renderer == nil {
		return nil, false, fmt.Errorf("%w: renderer not configured", ErrRenderFailed)
	}
	start := time.Now()
	pdf, err := s.Renderer.Render(ctx, resume.Latex())
	metrics.ObserveRenderMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncPDFRenderFailed()
		if errors.Is(err, render.ErrEmptyLatex) {
			return nil, false, ErrEmptyContent
		}
		return nil, false, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	metrics.IncPDFRendered()

	if s.Store != nil {
		if _, err := s.Store.SaveWithKey(ctx, key, "application/pdf", bytes.NewReader(pdf)); err != nil {
			telemetry.Warn("resume.pdf.cache_write_failed", map[string]any{"resume_id": resume.ID, "error": err})
		} else if err := s.Repo.SetPDFKey(ctx, resume.ID, key); err != nil {
			telemetry.Warn("resume.pdf.key_update_failed", map[string]any{"resume_id": resume.ID, "error": err})
		}
	}
	return pdf, false, nil
}

func (s *Service) readCached(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	pdf, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, object.ErrNotFound
	}
	return pdf, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

package generatedresumes

import "errors"

var (
	// ErrNotFound indicates the resume does not exist or belongs to another user.
	ErrNotFound = errors.New("resume not found")

	// ErrUserNotFound indicates the requesting user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileNotFound indicates the source profile is missing or not owned by the user.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed indicates the model did not produce a resume.
	ErrGenerationFailed = errors.New("failed to generate resume")

	// ErrEmptyContent indicates the resume has no LaTeX to render.
	ErrEmptyContent = errors.New("resume content not available")

	// ErrRenderFailed indicates pdflatex could not produce a PDF.
	ErrRenderFailed = errors.New("PDF generation failed")
)

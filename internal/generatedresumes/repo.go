package generatedresumes

import "context"

// Repo defines persistence operations for generated resumes.
type Repo interface {
	Create(ctx context.Context, resume GeneratedResume) (GeneratedResume, error)
	GetByID(ctx context.Context, resumeID int64) (GeneratedResume, error)
	// ListByUser returns the user's resumes, newest first.
	ListByUser(ctx context.Context, userID int64) ([]GeneratedResume, error)
	SetPDFKey(ctx context.Context, resumeID int64, key string) error
}

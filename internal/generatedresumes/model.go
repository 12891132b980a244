package generatedresumes

import (
	"encoding/json"
	"time"
)

// GeneratedResume is a job-tailored LaTeX resume derived from a profile.
type GeneratedResume struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	UserResumeID   int64     `json:"user_resume_id" db:"user_resume_id"`
	Name           string    `json:"name" db:"name"`
	JobTitle       string    `json:"job_title" db:"job_title"`
	JobDescription string    `json:"job_description" db:"job_description"`
	NewResume      *string   `json:"new_resume" db:"new_resume"`
	PDFKey         *string   `json:"-" db:"pdf_key"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// MarshalJSON adds resume_id, a deprecated alias of id kept for older clients.
func (g GeneratedResume) MarshalJSON() ([]byte, error) {
	type plain GeneratedResume
	return json.Marshal(struct {
		plain
		ResumeID int64 `json:"resume_id"`
	}{plain: plain(g), ResumeID: g.ID})
}

// Latex returns the stored LaTeX source or an empty string.
func (g GeneratedResume) Latex() string {
	if g.NewResume == nil {
		return ""
	}
	return *g.NewResume
}

// GenerateInput is a request to tailor a profile to a job.
type GenerateInput struct {
	UserID         int64
	ProfileID      int64
	Name           string
	JobTitle       string
	JobDescription string
	CreatedAt      time.Time
	RequestID      string
}

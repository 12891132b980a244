package apiclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"resume-tailor/internal/shared/patch"
	"resume-tailor/internal/shared/util"
)

// Timestamp decodes the service's datetime strings, with or without a zone.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := util.ParseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Text accepts a JSON string or number; parsed resumes use both for years.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(n.String())
		return nil
	}
}

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt Timestamp `json:"created_at"`
}

// Session is the result of signup and login.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

type Profile struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ProfileName    string    `json:"profile_name"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone"`
	Address        *string   `json:"address"`
	Links          *string   `json:"links"`
	Education      *string   `json:"education"`
	Experience     *string   `json:"experience"`
	Skills         *string   `json:"skills"`
	Certifications *string   `json:"certifications"`
	Projects       *string   `json:"projects"`
	Languages      *string   `json:"languages"`
	Hobbies        *string   `json:"hobbies"`
	CreatedAt      Timestamp `json:"created_at"`
}

// ProfileInput is a profile before the service assigns id and the client stamps created_at.
type ProfileInput struct {
	ProfileName    string  `json:"profile_name"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone,omitempty"`
	Address        *string `json:"address,omitempty"`
	Links          *string `json:"links,omitempty"`
	Education      *string `json:"education,omitempty"`
	Experience     *string `json:"experience,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Certifications *string `json:"certifications,omitempty"`
	Projects       *string `json:"projects,omitempty"`
	Languages      *string `json:"languages,omitempty"`
	Hobbies        *string `json:"hobbies,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   Text   `json:"year"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Year        Text   `json:"year"`
}

type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       Text   `json:"year"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Years       Text   `json:"years"`
}

// ParsedResume is the draft profile the service extracts from an uploaded PDF.
type ParsedResume struct {
	Name           *string         `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	Address        *string         `json:"address"`
	Links          []string        `json:"links"`
	Certifications []Certification `json:"certifications"`
	Projects       []Project       `json:"projects"`
	Languages      []string        `json:"languages"`
	Education      []Education     `json:"education"`
	Experience     []Experience    `json:"experience"`
	Skills         []string        `json:"skills"`
}

type GeneratedResume struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	UserResumeID   int64     `json:"user_resume_id"`
	Name           string    `json:"name"`
	JobTitle       string    `json:"job_title"`
	JobDescription string    `json:"job_description"`
	NewResume      *string   `json:"new_resume"`
	CreatedAt      Timestamp `json:"created_at"`
}

// UnmarshalJSON reads id, falling back to the deprecated resume_id alias.
func (r *GeneratedResume) UnmarshalJSON(data []byte) error {
	type plain GeneratedResume
	var aux struct {
		plain
		ResumeID *int64 `json:"resume_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = GeneratedResume(aux.plain)
	if r.ID == 0 && aux.ResumeID != nil {
		r.ID = *aux.ResumeID
	}
	return nil
}

// GenerateInput asks the service to tailor a profile to a job.
type GenerateInput struct {
	ProfileID      int64
	Name           string
	JobTitle       string
	JobDescription string
}

// SettingsPatch enumerates the mutable account fields. Absent fields are left
// unchanged; patch.Clear on Phone removes it.
type SettingsPatch struct {
	Password patch.Field[string] `json:"password,omitzero"`
	Phone    patch.Field[string] `json:"phone,omitzero"`
}

// PDFFileName is the suggested download name for a resume PDF.
func PDFFileName(userID, resumeID int64) string {
	return "resume_" + strconv.FormatInt(userID, 10) + "_" + strconv.FormatInt(resumeID, 10) + ".pdf"
}

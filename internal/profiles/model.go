package profiles

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Profile is a named bundle of resume source data owned by a user.
type Profile struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	ProfileName    string    `json:"profile_name" db:"profile_name"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          *string   `json:"phone" db:"phone"`
	Address        *string   `json:"address" db:"address"`
	Links          *string   `json:"links" db:"links"`
	Education      *string   `json:"education" db:"education"`
	Experience     *string   `json:"experience" db:"experience"`
	Skills         *string   `json:"skills" db:"skills"`
	Certifications *string   `json:"certifications" db:"certifications"`
	Projects       *string   `json:"projects" db:"projects"`
	Languages      *string   `json:"languages" db:"languages"`
	Hobbies        *string   `json:"hobbies" db:"hobbies"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ResumeData is the structured draft extracted from an uploaded resume.
type ResumeData struct {
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

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   Year   `json:"year"`
}

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Year        Year   `json:"year"`
}

type Education struct {
	Degree     string `json:"degree"`
	University string `json:"university"`
	Year       Year   `json:"year"`
}

type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Description string `json:"description"`
	Years       Year   `json:"years"`
}

// Year holds a year or period that models return as a number, a string or null.
type Year string

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = Year(n.String())
	return nil
}

func (y Year) MarshalJSON() ([]byte, error) {
	if y == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(y))
}

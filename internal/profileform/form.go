// Package profileform maps parsed resume documents onto the manual profile
// form and turns a filled form into a create-profile request.
package profileform

import (
	"errors"
	"strings"

	"resume-tailor/internal/apiclient"
)

// ErrIncomplete is returned by Input when a required field is blank.
var ErrIncomplete = errors.New("profile name, name and email are required")

// Form mirrors the manual profile form. List-valued sections are free text:
// one entry per line, or comma separated for skills and languages.
type Form struct {
	ProfileName    string
	Name           string
	Email          string
	Phone          string
	Address        string
	Links          string
	Education      string
	Experience     string
	Skills         string
	Certifications string
	Projects       string
	Languages      string
	Hobbies        string
}

// FromParsed pre-fills a form from the service's parsed draft. Missing
// sections stay empty; the profile name is left for the user.
func FromParsed(p apiclient.ParsedResume) Form {
	f := Form{
		Name:      deref(p.Name),
		Email:     deref(p.Email),
		Phone:     deref(p.Phone),
		Address:   deref(p.Address),
		Links:     joinLines(p.Links),
		Skills:    joinComma(p.Skills),
		Languages: joinComma(p.Languages),
	}

	edu := make([]string, 0, len(p.Education))
	for _, e := range p.Education {
		edu = append(edu, withYear(joinNonEmpty(", ", e.Degree, e.University), string(e.Year)))
	}
	f.Education = joinLines(edu)

	exp := make([]string, 0, len(p.Experience))
	for _, e := range p.Experience {
		head := joinNonEmpty(" at ", e.Role, e.Company)
		exp = append(exp, withDescription(withYear(head, string(e.Years)), e.Description))
	}
	f.Experience = joinLines(exp)

	certs := make([]string, 0, len(p.Certifications))
	for _, c := range p.Certifications {
		certs = append(certs, withYear(joinNonEmpty(" - ", c.Name, c.Issuer), string(c.Year)))
	}
	f.Certifications = joinLines(certs)

	projects := make([]string, 0, len(p.Projects))
	for _, pr := range p.Projects {
		projects = append(projects, withDescription(withYear(strings.TrimSpace(pr.Name), string(pr.Year)), pr.Description))
	}
	f.Projects = joinLines(projects)

	return f
}

// Input builds the create-profile request. Blank optional fields are omitted.
func (f Form) Input() (apiclient.ProfileInput, error) {
	in := apiclient.ProfileInput{
		ProfileName:    strings.TrimSpace(f.ProfileName),
		Name:           strings.TrimSpace(f.Name),
		Email:          strings.TrimSpace(f.Email),
		Phone:          optional(f.Phone),
		Address:        optional(f.Address),
		Links:          optional(f.Links),
		Education:      optional(f.Education),
		Experience:     optional(f.Experience),
		Skills:         optional(f.Skills),
		Certifications: optional(f.Certifications),
		Projects:       optional(f.Projects),
		Languages:      optional(f.Languages),
		Hobbies:        optional(f.Hobbies),
	}
	if in.ProfileName == "" || in.Name == "" || in.Email == "" {
		return apiclient.ProfileInput{}, ErrIncomplete
	}
	return in, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func withYear(s, year string) string {
	year = strings.TrimSpace(year)
	switch {
	case year == "":
		return s
	case s == "":
		return year
	}
	return s + " (" + year + ")"
}

func withDescription(s, desc string) string {
	// entries are single lines
	desc = strings.Join(strings.Fields(desc), " ")
	switch {
	case desc == "":
		return s
	case s == "":
		return desc
	}
	return s + ": " + desc
}

func joinLines(items []string) string {
	return joinItems(items, "\n")
}

func joinComma(items []string) string {
	return joinItems(items, ", ")
}

func joinItems(items []string, sep string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			kept = append(kept, it)
		}
	}
	return strings.Join(kept, sep)
}

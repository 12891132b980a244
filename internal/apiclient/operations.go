package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"
)

type sessionData struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token"`
}

func (d sessionData) complete() bool { return d.User != nil && d.User.ID > 0 }

type userData struct {
	User *User `json:"user"`
}

func (d userData) complete() bool { return d.User != nil && d.User.ID > 0 }

type profilesData struct {
	Profiles *[]Profile `json:"profiles"`
}

func (d profilesData) complete() bool { return d.Profiles != nil }

type createdProfileData struct {
	NewProfileID int64    `json:"new_profile_id"`
	Profile      *Profile `json:"user"`
}

func (d createdProfileData) complete() bool { return d.NewProfileID > 0 && d.Profile != nil }

type parsedData struct {
	ResumeData *ParsedResume `json:"resume_data"`
}

func (d parsedData) complete() bool { return d.ResumeData != nil }

type resumesData struct {
	Resumes *[]GeneratedResume `json:"resumes"`
}

func (d resumesData) complete() bool { return d.Resumes != nil }

type resumeData struct {
	Resume *GeneratedResume `json:"resume"`
}

func (d resumeData) complete() bool { return d.Resume != nil && d.Resume.ID > 0 }

type generatedData struct {
	ResumeID *int64 `json:"resume_id"`
	ID       *int64 `json:"id"`
}

func (d generatedData) complete() bool { return d.id() > 0 }

func (d generatedData) id() int64 {
	if d.ResumeID != nil {
		return *d.ResumeID
	}
	if d.ID != nil {
		return *d.ID
	}
	return 0
}

func userPath(userID int64) string {
	return fmt.Sprintf("/user/%d", userID)
}

func profilesPath(userID int64) string {
	return fmt.Sprintf("/profile/%d", userID)
}

func resumesPath(userID int64) string {
	return fmt.Sprintf("/profile/%d/new_resume", userID)
}

func resumePath(userID, resumeID int64) string {
	return fmt.Sprintf("/profile/%d/new_resume/%d", userID, resumeID)
}

func (c *Client) stamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

// Login exchanges credentials for a session. Bad credentials are KindUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	req, err := jsonRequest(http.MethodPost, "/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return Session{}, err
	}
	req.authFailure = MsgInvalidCredentials
	data, err := call[sessionData](ctx, c, req)
	if err != nil {
		return Session{}, err
	}
	return Session{User: *data.User, AccessToken: data.AccessToken}, nil
}

// Signup registers a user and returns its session.
func (c *Client) Signup(ctx context.Context, name, email, password string, phone *string) (Session, error) {
	req, err := jsonRequest(http.MethodPost, "/signup", map[string]any{
		"name":       name,
		"email":      email,
		"password":   password,
		"phone":      phone,
		"created_at": c.stamp(),
	})
	if err != nil {
		return Session{}, err
	}
	data, err := call[sessionData](ctx, c, req)
	if err != nil {
		return Session{}, err
	}
	return Session{User: *data.User, AccessToken: data.AccessToken}, nil
}

func (c *Client) GetUser(ctx context.Context, userID int64) (User, error) {
	req, err := jsonRequest(http.MethodGet, userPath(userID), nil)
	if err != nil {
		return User{}, err
	}
	data, err := call[userData](ctx, c, req)
	if err != nil {
		return User{}, err
	}
	return *data.User, nil
}

// UpdateSettings sends only the fields present in p.
func (c *Client) UpdateSettings(ctx context.Context, userID int64, p SettingsPatch) (User, error) {
	req, err := jsonRequest(http.MethodPatch, userPath(userID), p)
	if err != nil {
		return User{}, err
	}
	data, err := call[userData](ctx, c, req)
	if err != nil {
		return User{}, err
	}
	return *data.User, nil
}

// FetchProfiles lists the user's profiles; a 404 means none yet and yields an empty list.
func (c *Client) FetchProfiles(ctx context.Context, userID int64) ([]Profile, error) {
	req, err := jsonRequest(http.MethodGet, profilesPath(userID), nil)
	if err != nil {
		return nil, err
	}
	data, err := call[profilesData](ctx, c, req)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return []Profile{}, nil
		}
		return nil, err
	}
	return *data.Profiles, nil
}

// CreateProfile stores a profile for userID, stamping created_at with the client clock.
func (c *Client) CreateProfile(ctx context.Context, userID int64, in ProfileInput) (Profile, error) {
	body := struct {
		ProfileInput
		UserID    int64  `json:"user_id"`
		CreatedAt string `json:"created_at"`
	}{ProfileInput: in, UserID: userID, CreatedAt: c.stamp()}

	req, err := jsonRequest(http.MethodPost, "/profile", body)
	if err != nil {
		return Profile{}, err
	}
	data, err := call[createdProfileData](ctx, c, req)
	if err != nil {
		return Profile{}, err
	}
	profile := *data.Profile
	profile.ID = data.NewProfileID
	if profile.UserID == 0 {
		profile.UserID = userID
	}
	return profile, nil
}

// FetchResumes lists the user's generated resumes newest first; a 404 yields an empty list.
func (c *Client) FetchResumes(ctx context.Context, userID int64) ([]GeneratedResume, error) {
	req, err := jsonRequest(http.MethodGet, resumesPath(userID), nil)
	if err != nil {
		return nil, err
	}
	data, err := call[resumesData](ctx, c, req)
	if err != nil {
		if IsKind(err, KindNotFound) {
			return []GeneratedResume{}, nil
		}
		return nil, err
	}
	resumes := *data.Resumes
	sort.SliceStable(resumes, func(i, j int) bool {
		if !resumes[i].CreatedAt.Equal(resumes[j].CreatedAt.Time) {
			return resumes[i].CreatedAt.After(resumes[j].CreatedAt.Time)
		}
		return resumes[i].ID > resumes[j].ID
	})
	return resumes, nil
}

// FetchResume returns one generated resume; a 404 is KindNotFound.
func (c *Client) FetchResume(ctx context.Context, userID, resumeID int64) (GeneratedResume, error) {
	req, err := jsonRequest(http.MethodGet, resumePath(userID, resumeID), nil)
	if err != nil {
		return GeneratedResume{}, err
	}
	data, err := call[resumeData](ctx, c, req)
	if err != nil {
		return GeneratedResume{}, err
	}
	return *data.Resume, nil
}

// GenerateResume tailors a profile to a job and returns the new resume id.
func (c *Client) GenerateResume(ctx context.Context, userID int64, in GenerateInput) (int64, error) {
	req, err := jsonRequest(http.MethodPost, resumesPath(userID), map[string]any{
		"user_id":         userID,
		"user_resume_id":  in.ProfileID,
		"name":            in.Name,
		"job_title":       in.JobTitle,
		"job_description": in.JobDescription,
		"created_at":      c.stamp(),
	})
	if err != nil {
		return 0, err
	}
	data, err := call[generatedData](ctx, c, req)
	if err != nil {
		return 0, err
	}
	return data.id(), nil
}

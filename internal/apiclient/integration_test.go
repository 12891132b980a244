package apiclient

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/bootstrap"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/shared/config"
)

type latexLLM struct{}

func (latexLLM) GenerateResume(ctx context.Context, in llm.GenerateInput) (string, error) {
	return `\documentclass{article}\begin{document}` + in.JobTitle + `\end{document}`, nil
}

func (latexLLM) ParseResume(ctx context.Context, in llm.ParseInput) (json.RawMessage, error) {
	return json.RawMessage(`{"name":"Jane Doe","email":"jane@x.com","links":["https://a.dev","https://a.dev"],"skills":["Go"]}`), nil
}

type pdfRenderer struct{}

func (pdfRenderer) Render(ctx context.Context, latex string) ([]byte, error) {
	return []byte("%PDF-1.5\n" + latex), nil
}

func newLiveClient(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		LocalStoreDir:   t.TempDir(),
		LLMProvider:     "placeholder",
		CORSAllowOrigin: []string{"*"},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	app.ProfilesService.LLM = latexLLM{}
	app.GeneratedResumesService.LLM = latexLLM{}
	app.GeneratedResumesService.Renderer = pdfRenderer{}

	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestAgainstServiceSignupLoginSameID(t *testing.T) {
	c := newLiveClient(t)
	ctx := context.Background()

	signed, err := c.Signup(ctx, "Jane Doe", "jane@x.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if signed.User.ID == 0 || signed.AccessToken == "" {
		t.Fatalf("unexpected session %+v", signed)
	}
	logged, err := c.Login(ctx, "jane@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.User.ID != signed.User.ID {
		t.Fatalf("expected id %d, got %d", signed.User.ID, logged.User.ID)
	}

	if _, err := c.Login(ctx, "jane@x.com", "wrong-password"); !IsKind(err, KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := c.Signup(ctx, "Jane", "jane@x.com", "secret1", nil); !IsKind(err, KindValidation) || Message(err) != "User already exists" {
		t.Fatalf("expected duplicate validation error, got %v", err)
	}
	if _, err := c.Signup(ctx, "Jane", "not-an-email", "secret1", nil); !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAgainstServiceProfilesAreUserScoped(t *testing.T) {
	c := newLiveClient(t)
	ctx := context.Background()

	alice, err := c.Signup(ctx, "Alice", "alice@x.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	bob, err := c.Signup(ctx, "Bob", "bob@x.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	empty, err := c.FetchProfiles(ctx, alice.User.ID)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected no profiles yet, got %v %v", empty, err)
	}

	created, err := c.CreateProfile(ctx, alice.User.ID, ProfileInput{ProfileName: "Main", Name: "Alice", Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if _, err := c.CreateProfile(ctx, bob.User.ID, ProfileInput{ProfileName: "Bobs", Name: "Bob", Email: "bob@x.com"}); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	list, err := c.FetchProfiles(ctx, alice.User.ID)
	if err != nil {
		t.Fatalf("FetchProfiles: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID || list[0].ProfileName != "Main" || list[0].Name != "Alice" || list[0].Email != "alice@x.com" {
		t.Fatalf("unexpected profiles for alice: %+v", list)
	}

	if _, err := c.CreateProfile(ctx, alice.User.ID, ProfileInput{Name: "x", Email: "x@x.io"}); !IsKind(err, KindValidation) || Message(err) != "profile_name: field required" {
		t.Fatalf("expected first field error, got %v", err)
	}
}

func TestAgainstServiceGenerateAndDownload(t *testing.T) {
	c := newLiveClient(t)
	ctx := context.Background()

	session, err := c.Signup(ctx, "Jane Doe", "jane@x.com", "secret1", nil)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	c.SetToken(session.AccessToken)
	userID := session.User.ID

	parsed, err := c.UploadResumePDF(ctx, "cv.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("UploadResumePDF: %v", err)
	}
	if len(parsed.Links) != 1 {
		t.Fatalf("expected de-duplicated links, got %v", parsed.Links)
	}

	profile, err := c.CreateProfile(ctx, userID, ProfileInput{ProfileName: "Main", Name: "Jane Doe", Email: "jane@x.com"})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	resumes, err := c.FetchResumes(ctx, userID)
	if err != nil || len(resumes) != 0 {
		t.Fatalf("expected no resumes yet, got %v %v", resumes, err)
	}

	id, err := c.GenerateResume(ctx, userID, GenerateInput{ProfileID: profile.ID, Name: "Draft A", JobTitle: "Backend Engineer", JobDescription: "Go services"})
	if err != nil {
		t.Fatalf("GenerateResume: %v", err)
	}
	resume, err := c.FetchResume(ctx, userID, id)
	if err != nil {
		t.Fatalf("FetchResume: %v", err)
	}
	if resume.ID != id || resume.UserResumeID != profile.ID || resume.JobTitle != "Backend Engineer" {
		t.Fatalf("unexpected resume %+v", resume)
	}

	second, err := c.GenerateResume(ctx, userID, GenerateInput{ProfileID: profile.ID, Name: "Draft B", JobTitle: "SRE", JobDescription: "ops"})
	if err != nil {
		t.Fatalf("GenerateResume: %v", err)
	}
	resumes, err = c.FetchResumes(ctx, userID)
	if err != nil || len(resumes) != 2 || resumes[0].ID != second {
		t.Fatalf("expected newest first, got %+v %v", resumes, err)
	}

	pdf, err := c.FetchResumePDF(ctx, userID, id)
	if err != nil || len(pdf) == 0 {
		t.Fatalf("FetchResumePDF: %v", err)
	}
	if _, err := c.FetchResume(ctx, userID, 999); !IsKind(err, KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := c.GenerateResume(ctx, userID, GenerateInput{ProfileID: profile.ID, JobTitle: "x"}); !IsKind(err, KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := c.FetchResumes(ctx, userID+1); !IsKind(err, KindUnauthorized) {
		t.Fatalf("expected cross-user access to be refused, got %v", err)
	}
}

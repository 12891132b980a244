package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/services/health"
	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/profile/:userId/new_resume", func(c *gin.Context) { c.Status(http.StatusOK) })
	rg.GET("/profile/:userId/new_resume", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func newTestRouter(h *health.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Config:   config.Config{Env: "dev", CORSAllowOrigin: []string{"*"}},
		Health:   h,
		Handlers: []RouteRegistrar{pingRoutes{}},
	})
}

func TestHealthReflectsChecks(t *testing.T) {
	h := health.NewService()
	r := newTestRouter(h)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	h.Register("db", func(ctx context.Context) error { return errors.New("down") })
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.Code != http.StatusServiceUnavailable || !strings.Contains(resp.Body.String(), `"db":"down"`) {
		t.Fatalf("expected 503 with check detail, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGenerationRoutesShareStricterBucket(t *testing.T) {
	r := newTestRouter(nil)
	allowed := 0
	for i := 0; i < 10; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/profile/1/new_resume", nil))
		if resp.Code == http.StatusOK {
			allowed++
		}
	}
	if want := DefaultRateLimitRules()[generationGroup].Burst; allowed != want {
		t.Fatalf("expected %d generate requests allowed, got %d", want, allowed)
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/profile/1/new_resume", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("list should use the default bucket, got %d", resp.Code)
	}
}

func TestMeRequiresToken(t *testing.T) {
	r := newTestRouter(nil)

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/me", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	token, err := auth.SignJWT(auth.Claims{UserID: 7, Email: "a@x.io"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"user_id":7`) {
		t.Fatalf("unexpected /me response %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8000", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) expected %q, got %q", in, want, got)
		}
	}
}

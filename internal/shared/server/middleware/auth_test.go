package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/auth"
)

func ownerRouter(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth())
	r.GET("/profile/:userId", RequireOwner("userId", required), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func signedHeader(t *testing.T, uid int64) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{UserID: uid})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func TestRequireOwner(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-secret")

	tests := []struct {
		name     string
		required bool
		header   string
		want     int
	}{
		{name: "anonymous allowed when optional", required: false, want: http.StatusOK},
		{name: "anonymous rejected when required", required: true, want: http.StatusUnauthorized},
		{name: "owner allowed", required: true, header: signedHeader(t, 1), want: http.StatusOK},
		{name: "other user forbidden", required: false, header: signedHeader(t, 2), want: http.StatusForbidden},
		{name: "garbage token", required: false, header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong scheme", required: false, header: "Basic abc", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			ownerRouter(tt.required).ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}

package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/envelope"
)

type signupBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/signup", func(c *gin.Context) {
		var body signupBody
		if err := c.ShouldBindJSON(&body); err != nil {
			Validation(c, err)
			return
		}
		OK(c, "created", gin.H{"user": gin.H{"name": body.Name}})
	})
	r.GET("/missing", func(c *gin.Context) {
		Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	})
	return r
}

func TestValidationWritesDetailList(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":"Jane","email":"nope","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var body struct {
		Status string                `json:"status"`
		Detail []envelope.FieldError `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" {
		t.Fatalf("expected status error, got %q", body.Status)
	}
	if len(body.Detail) != 1 {
		t.Fatalf("expected one field error, got %+v", body.Detail)
	}
	got := body.Detail[0]
	if len(got.Loc) != 2 || got.Loc[1] != "email" || got.Type != "value_error.email" {
		t.Fatalf("unexpected field error: %+v", got)
	}
}

func TestValidationHandlesMalformedJSON(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "value_error.jsondecode") {
		t.Fatalf("expected jsondecode detail, got %s", resp.Body.String())
	}
}

func TestOKAndErrorEnvelopes(t *testing.T) {
	r := newRouter()

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"name":"Jane","email":"jane@x.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var ok envelope.Raw
	if err := json.NewDecoder(resp.Body).Decode(&ok); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ok.Status != envelope.StatusSuccess || ok.MessageText() != "created" {
		t.Fatalf("unexpected envelope: %+v", ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/missing", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var failed envelope.ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&failed); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if failed.Message != "User not found" || failed.Code != "not_found" || failed.Data != nil {
		t.Fatalf("unexpected error body: %+v", failed)
	}
}

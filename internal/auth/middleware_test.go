package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type pingOutput struct {
	Body struct {
		User string `json:"user"`
	}
}

func sessionAPI(t *testing.T, j *JWT) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	api := humachi.New(r, huma.DefaultConfig("test", "0.0.0"))
	api.UseMiddleware(Middleware(j))
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
	}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.User = UserFromContext(ctx)
		return out, nil
	})
	return r
}

func TestMiddlewareRejectsMissingSession(t *testing.T) {
	h := sessionAPI(t, NewJWT("secret", time.Hour))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
		Cause   string `json:"cause"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body %q: %v", rec.Body.String(), err)
	}
	if body.Message != "Authentication required" || body.Cause != "AUTHENTICATION_REQUIRED" {
		t.Fatalf("body = %+v", body)
	}
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	h := sessionAPI(t, NewJWT("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestMiddlewarePassesValidSession(t *testing.T) {
	j := NewJWT("secret", time.Hour)
	h := sessionAPI(t, j)
	tok, err := j.Generate("user-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// cookie path
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("cookie status = %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		User string `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body.User != "user-1" {
		t.Fatalf("user = %q", body.User)
	}

	// bearer path
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer status = %d", rec.Code)
	}
}

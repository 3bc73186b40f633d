package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

func newAuthRouter(t *testing.T) chi.Router {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pizza123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	r := chi.NewRouter()
	h := NewAuthHandler("test-secret", "admin", string(hash))
	h.RegisterRoutes(r)
	return r
}

func TestLoginSuccess(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"username":"admin","password":"pizza123"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "access_token") {
		t.Error("response should carry an access token")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newAuthRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"username":"admin","password":"wrong"}`},
		{"wrong user", `{"username":"root","password":"pizza123"}`},
		{"empty", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest("POST", "/login", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

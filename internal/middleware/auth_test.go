package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dfirmansy/userledger/internal/auth"
)

func newTestIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	issuer := newTestIssuer()
	token, _, err := issuer.Issue("u-1", "ann@example.com")
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	var userID string
	handler := AuthenticationMiddleware(issuer, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = GetAuthUserID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if userID != "u-1" {
		t.Errorf("Expected user ID from claims in context, got %q", userID)
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := AuthenticationMiddleware(newTestIssuer(), testLogger())(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/users", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
		t.Errorf("Expected WWW-Authenticate header, got %q", got)
	}
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	handler := AuthenticationMiddleware(newTestIssuer(), testLogger())(okHandler())

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareNonBearerScheme(t *testing.T) {
	handler := AuthenticationMiddleware(newTestIssuer(), testLogger())(okHandler())

	req := httptest.NewRequest("GET", "/users", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
}

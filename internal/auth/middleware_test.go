package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler(t *testing.T, wantUserID int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := UserIDFromContext(r.Context()); got != wantUserID {
			t.Errorf("expected user id %d in context, got %d", wantUserID, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireUserAcceptsValidToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(42, "user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	RequireUser(issuer)(okHandler(t, 42)).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireUserRejections(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	expired := NewIssuer("test-secret", time.Nanosecond)
	expiredToken, _ := expired.Issue(42, "")
	time.Sleep(time.Millisecond)

	otherSecret := NewIssuer("wrong-secret", time.Hour)
	forgedToken, _ := otherSecret.Issue(42, "")

	cases := []struct {
		name   string
		header string
		reason string
	}{
		{"missing header", "", "authorization header missing"},
		{"wrong scheme", "Basic abc123", "invalid authentication scheme"},
		{"malformed token", "Bearer not.a.jwt", "invalid token"},
		{"wrong signature", "Bearer " + forgedToken, "invalid token"},
		{"expired token", "Bearer " + expiredToken, "token has expired"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/profile/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			RequireUser(issuer)(okHandler(t, 42)).ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.reason) {
				t.Errorf("expected reason %q, got %q", tc.reason, w.Body.String())
			}
		})
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lenawood/shelfmark/internal/auth"
)

func identityProbe(t *testing.T, got **auth.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = auth.IdentityFromContext(r.Context())
	})
}

func TestAuthAttachesIdentityForValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	id := uuid.New()
	token, err := tokens.Sign(id, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	var got *auth.Identity
	handler := Auth(tokens)(identityProbe(t, &got))

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != id {
		t.Fatalf("got identity %v, want %s", got, id)
	}
}

func TestAuthPassesThroughWithoutHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	var got *auth.Identity
	handler := Auth(tokens)(identityProbe(t, &got))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/query", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if got != nil {
		t.Fatalf("got identity %v, want none", got)
	}
}

func TestAuthIgnoresInvalidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	var got *auth.Identity
	handler := Auth(tokens)(identityProbe(t, &got))

	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != nil {
		t.Fatalf("got identity %v, want none", got)
	}
}

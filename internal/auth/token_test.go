package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := tm.Sign(id, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if token == "" {
		t.Fatal("Sign returned empty token")
	}

	ident, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ident.ID != id {
		t.Fatalf("got identity %s, want %s", ident.ID, id)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Sign(uuid.New(), "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := NewTokenManager("secret-b", time.Hour).Verify(token); err == nil {
		t.Fatal("Verify accepted a token signed with another secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)
	token, err := tm.Sign(uuid.New(), "alice", "a@x.com")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if _, err := tm.Verify(token); err == nil {
		t.Fatal("Verify accepted an expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewTokenManager("test-secret", time.Hour).Verify("not.a.token"); err == nil {
		t.Fatal("Verify accepted garbage")
	}
}

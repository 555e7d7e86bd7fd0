package auth

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}

	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("CheckPassword accepted the wrong password")
	}
}

func TestDummyHashIsWellFormed(t *testing.T) {
	// The timing equalization only works if the constant parses as a real
	// bcrypt hash: a mismatch must be a mismatch, not a malformed-hash error.
	if len(dummyHash) != 60 {
		t.Fatalf("dummyHash is %d characters, want 60", len(dummyHash))
	}
	if err := CheckPassword(dummyHash, "definitely-not-the-preimage"); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("got %v, want bcrypt.ErrMismatchedHashAndPassword", err)
	}
	CompareDummy("anything")
}

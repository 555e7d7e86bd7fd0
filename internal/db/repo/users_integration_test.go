package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lenawood/shelfmark/internal/db"
)

// These tests exercise the saved-books UPDATE statements against a real
// database. They run only when TEST_DATABASE_URL points at a Postgres with
// the migrations applied; otherwise they skip.

func testStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:               url,
		MaxConns:          4,
		MinConns:          0,
		HealthCheckPeriod: time.Minute,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return New(pool)
}

func createTestUser(t *testing.T, s *Store, books ...Book) User {
	t.Helper()

	id := uuid.New()
	u, err := s.CreateUser(context.Background(), User{
		ID:           id,
		Username:     fmt.Sprintf("reader-%s", id),
		Email:        fmt.Sprintf("reader-%s@example.com", id),
		PasswordHash: "irrelevant",
		SavedBooks:   books,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.pool.Exec(context.Background(), "DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

func TestAddSavedBookIsIdempotentForIdenticalBooks(t *testing.T) {
	s := testStore(t)
	u := createTestUser(t, s)
	b := book("gbooks-123", "Dune", "Frank Herbert")

	first, err := s.AddSavedBook(context.Background(), u.ID, b)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.AddSavedBook(context.Background(), u.ID, b)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(first.SavedBooks) != 1 {
		t.Fatalf("after first save: got %d books, want 1", len(first.SavedBooks))
	}
	if len(second.SavedBooks) != 1 {
		t.Fatalf("after identical save: got %d books, want exactly 1 copy", len(second.SavedBooks))
	}
}

func TestAddSavedBookKeepsSameIDDifferentTitle(t *testing.T) {
	s := testStore(t)
	u := createTestUser(t, s)

	if _, err := s.AddSavedBook(context.Background(), u.ID, book("gbooks-123", "Dune", "Frank Herbert")); err != nil {
		t.Fatalf("first save: %v", err)
	}
	updated, err := s.AddSavedBook(context.Background(), u.ID, book("gbooks-123", "Dune Messiah", "Frank Herbert"))
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	if len(updated.SavedBooks) != 2 {
		t.Fatalf("got %d books, want 2 distinct entries sharing a bookId", len(updated.SavedBooks))
	}
}

func TestRemoveSavedBookPullsAllMatches(t *testing.T) {
	s := testStore(t)
	u := createTestUser(t, s,
		book("gbooks-123", "Dune", "Frank Herbert"),
		book("gbooks-123", "Dune Messiah", "Frank Herbert"),
		book("gbooks-456", "Hyperion", "Dan Simmons"),
	)
	if len(u.SavedBooks) != 3 {
		t.Fatalf("setup: got %d books, want 3", len(u.SavedBooks))
	}

	updated, err := s.RemoveSavedBook(context.Background(), u.ID, "gbooks-123")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(updated.SavedBooks) != 1 {
		t.Fatalf("got %d books, want 1: both matching entries must go", len(updated.SavedBooks))
	}
	if updated.SavedBooks[0].BookID != "gbooks-456" {
		t.Fatalf("survivor is %q, want gbooks-456", updated.SavedBooks[0].BookID)
	}
}

func TestRemoveSavedBookNoMatchIsNoOp(t *testing.T) {
	s := testStore(t)
	u := createTestUser(t, s, book("gbooks-123", "Dune", "Frank Herbert"))

	updated, err := s.RemoveSavedBook(context.Background(), u.ID, "gbooks-999")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}

	if len(updated.SavedBooks) != 1 {
		t.Fatalf("got %d books, want the shelf unchanged", len(updated.SavedBooks))
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	s := testStore(t)
	u := createTestUser(t, s)

	_, err := s.CreateUser(context.Background(), User{
		ID:           uuid.New(),
		Username:     "someone-else",
		Email:        u.Email,
		PasswordHash: "irrelevant",
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicate reports a username or email uniqueness violation.
var ErrDuplicate = errors.New("username or email already in use")

// User is a persisted user row. Saved books live in a single JSONB column so
// every saved-book mutation is one atomic UPDATE against one row.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	SavedBooks   []Book
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Book is a saved-book document embedded in a user row. It has no identity of
// its own outside the owning user. Every key is always present in the stored
// JSON (empty, never absent), so two books are equal exactly when their JSON
// documents are equal.
type Book struct {
	BookID      string   `json:"bookId"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Link        string   `json:"link"`
}

const userColumns = "id, username, email, password_hash, saved_books, created_at, updated_at"

// Store provides lookup, creation and atomic saved-books mutation over user rows.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	books, err := marshalBooks(DedupBooks(u.SavedBooks))
	if err != nil {
		return User{}, err
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, email, password_hash, saved_books)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.PasswordHash, books,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// AddSavedBook appends the book to the user's saved set unless an entry equal
// in every field already exists. The check and the append happen in one UPDATE
// so concurrent saves cannot double-insert. Returns nil when the user row no
// longer exists.
func (s *Store) AddSavedBook(ctx context.Context, id uuid.UUID, b Book) (*User, error) {
	doc, err := marshalBook(b)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET saved_books = CASE
		        WHEN EXISTS (
		            SELECT 1 FROM jsonb_array_elements(saved_books) AS b(doc)
		            WHERE b.doc = $2::jsonb
		        ) THEN saved_books
		        ELSE saved_books || jsonb_build_array($2::jsonb)
		    END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, doc,
	)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("add saved book: %w", err)
	}
	return &u, nil
}

// RemoveSavedBook deletes every saved entry whose bookId matches, not just the
// first. Removing a bookId with no matches is a successful no-op.
func (s *Store) RemoveSavedBook(ctx context.Context, id uuid.UUID, bookID string) (*User, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE users
		SET saved_books = COALESCE(
		        (SELECT jsonb_agg(b.doc)
		         FROM jsonb_array_elements(saved_books) AS b(doc)
		         WHERE b.doc->>'bookId' IS DISTINCT FROM $2),
		        '[]'::jsonb),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, bookID,
	)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("remove saved book: %w", err)
	}
	return &u, nil
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		u   User
		raw []byte
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &raw, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	if err := json.Unmarshal(raw, &u.SavedBooks); err != nil {
		return User{}, fmt.Errorf("decode saved_books: %w", err)
	}
	return u, nil
}

// DedupBooks drops entries that repeat an earlier one in every field. Entries
// sharing a bookId but differing elsewhere are kept as distinct.
func DedupBooks(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if !containsBook(out, b) {
			out = append(out, canonicalBook(b))
		}
	}
	return out
}

func containsBook(books []Book, b Book) bool {
	cb := canonicalBook(b)
	for _, existing := range books {
		if booksEqual(canonicalBook(existing), cb) {
			return true
		}
	}
	return false
}

func booksEqual(a, b Book) bool {
	if a.BookID != b.BookID || a.Title != b.Title || a.Description != b.Description ||
		a.Image != b.Image || a.Link != b.Link || len(a.Authors) != len(b.Authors) {
		return false
	}
	for i := range a.Authors {
		if a.Authors[i] != b.Authors[i] {
			return false
		}
	}
	return true
}

// canonicalBook normalizes a book so its JSON form is deterministic: authors
// is never null, only empty.
func canonicalBook(b Book) Book {
	if b.Authors == nil {
		b.Authors = []string{}
	}
	return b
}

func marshalBook(b Book) ([]byte, error) {
	doc, err := json.Marshal(canonicalBook(b))
	if err != nil {
		return nil, fmt.Errorf("encode book: %w", err)
	}
	return doc, nil
}

func marshalBooks(books []Book) ([]byte, error) {
	canonical := make([]Book, len(books))
	for i, b := range books {
		canonical[i] = canonicalBook(b)
	}
	doc, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("encode books: %w", err)
	}
	return doc, nil
}

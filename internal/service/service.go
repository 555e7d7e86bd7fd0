package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lenawood/shelfmark/internal/auth"
	"github.com/lenawood/shelfmark/internal/config"
	"github.com/lenawood/shelfmark/internal/db/repo"
)

// UserStore is the persistence collaborator. FindBy* return (nil, nil) on a
// miss; AddSavedBook and RemoveSavedBook return the post-update row from the
// same atomic statement, or nil when the row no longer exists.
type UserStore interface {
	CreateUser(ctx context.Context, u repo.User) (repo.User, error)
	FindByUsername(ctx context.Context, username string) (*repo.User, error)
	FindByEmail(ctx context.Context, email string) (*repo.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*repo.User, error)
	AddSavedBook(ctx context.Context, id uuid.UUID, b repo.Book) (*repo.User, error)
	RemoveSavedBook(ctx context.Context, id uuid.UUID, bookID string) (*repo.User, error)
}

// TokenIssuer produces the opaque signed token returned on signup and login.
type TokenIssuer interface {
	Sign(id uuid.UUID, username, email string) (string, error)
}

type Service struct {
	store        UserStore
	tokens       TokenIssuer
	validate     *validator.Validate
	queryTimeout time.Duration
	bcryptCost   int
}

func New(store UserStore, tokens TokenIssuer, cfg config.Config) *Service {
	return &Service{
		store:        store,
		tokens:       tokens,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		queryTimeout: cfg.QueryTimeout,
		bcryptCost:   cfg.BcryptCost,
	}
}

// UserByUsername looks up one user by exact username. A miss is a nil user,
// never an error.
func (s *Service) UserByUsername(ctx context.Context, username string) (*repo.User, error) {
	tctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.store.FindByUsername(tctx, username)
}

// Me returns the caller's own record. Without an identity it fails before any
// store access; with one it returns whatever the store yields, including nil
// for an identity whose row is gone.
func (s *Service) Me(ctx context.Context, ident *auth.Identity) (*repo.User, error) {
	if ident == nil {
		return nil, NewUnauthenticated("Not Authenticated")
	}

	tctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.store.FindByID(tctx, ident.ID)
}

// CreateUser registers a new user and signs them in. Username and email
// uniqueness is enforced by the store; a collision surfaces as the store's
// conflict error.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (AuthPayload, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)

	if err := s.validateInput(in); err != nil {
		return AuthPayload{}, err
	}
	for _, b := range in.SavedBooks {
		if err := s.validateInput(b); err != nil {
			return AuthPayload{}, err
		}
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return AuthPayload{}, NewInternal("hash password", err)
	}

	books := make([]repo.Book, 0, len(in.SavedBooks))
	for _, b := range in.SavedBooks {
		books = append(books, b.toBook())
	}

	tctx, cancel := s.queryContext(ctx)
	defer cancel()

	user, err := s.store.CreateUser(tctx, repo.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		SavedBooks:   books,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return AuthPayload{}, NewConflict(repo.ErrDuplicate.Error(), err)
		}
		return AuthPayload{}, err
	}

	token, err := s.tokens.Sign(user.ID, user.Username, user.Email)
	if err != nil {
		return AuthPayload{}, NewInternal("sign token", err)
	}
	return AuthPayload{Token: token, User: user}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password fail identically, and the unknown-email path still pays one bcrypt
// comparison so the two are indistinguishable by timing.
func (s *Service) Login(ctx context.Context, email, password string) (AuthPayload, error) {
	tctx, cancel := s.queryContext(ctx)
	defer cancel()

	user, err := s.store.FindByEmail(tctx, normalizeEmail(email))
	if err != nil {
		return AuthPayload{}, err
	}
	if user == nil {
		auth.CompareDummy(password)
		return AuthPayload{}, NewUnauthenticated("Not authenticated")
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return AuthPayload{}, NewUnauthenticated("Not authenticated")
	}

	token, err := s.tokens.Sign(user.ID, user.Username, user.Email)
	if err != nil {
		return AuthPayload{}, NewInternal("sign token", err)
	}
	return AuthPayload{Token: token, User: *user}, nil
}

// SaveBook adds the book to the caller's saved set. The add is idempotent
// under full-field equality: a second save of an identical book changes
// nothing, while a book sharing only the bookId is kept as a distinct entry.
func (s *Service) SaveBook(ctx context.Context, ident *auth.Identity, in BookInput) (*repo.User, error) {
	if ident == nil {
		return nil, NewUnauthenticated("Could not find user")
	}
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	tctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.store.AddSavedBook(tctx, ident.ID, in.toBook())
}

// DeleteBook removes every saved entry matching the bookId. A bookId with no
// matches — the empty string included — is a successful no-op, never an error.
func (s *Service) DeleteBook(ctx context.Context, ident *auth.Identity, bookID string) (*repo.User, error) {
	if ident == nil {
		return nil, NewUnauthenticated("Could not find user")
	}

	tctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.store.RemoveSavedBook(tctx, ident.ID, bookID)
}

func (s *Service) validateInput(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return NewBadInput(fmt.Sprintf("%s failed %s validation", f.Field(), f.Tag()))
	}
	return NewBadInput("invalid input")
}

func (s *Service) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

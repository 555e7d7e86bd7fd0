package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/lenawood/shelfmark/internal/auth"
	"github.com/lenawood/shelfmark/internal/config"
	"github.com/lenawood/shelfmark/internal/db/repo"
)

// MockUserStore mocks the UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, u repo.User) (repo.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(repo.User), args.Error(1)
}

func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*repo.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*repo.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*repo.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.User), args.Error(1)
}

func (m *MockUserStore) AddSavedBook(ctx context.Context, id uuid.UUID, b repo.Book) (*repo.User, error) {
	args := m.Called(ctx, id, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.User), args.Error(1)
}

func (m *MockUserStore) RemoveSavedBook(ctx context.Context, id uuid.UUID, bookID string) (*repo.User, error) {
	args := m.Called(ctx, id, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repo.User), args.Error(1)
}

type stubIssuer struct {
	err error
}

func (s stubIssuer) Sign(id uuid.UUID, username, email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("token|%s|%s|%s", username, email, id), nil
}

func newTestService(store UserStore) *Service {
	return New(store, stubIssuer{}, config.Config{
		QueryTimeout: time.Second,
		BcryptCost:   bcrypt.MinCost,
	})
}

func validBook() BookInput {
	return BookInput{
		BookID:  "gbooks-123",
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	}
}

func assertAppErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	assert.Error(t, err)
	assert.True(t, IsAppErrorCode(err, code), "got %v, want code %s", err, code)
}

func TestUserByUsernameMissIsNotAnError(t *testing.T) {
	store := new(MockUserStore)
	store.On("FindByUsername", mock.Anything, "ghost").Return(nil, nil)

	user, err := newTestService(store).UserByUsername(context.Background(), "ghost")

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestMeWithoutIdentityFailsBeforeStore(t *testing.T) {
	store := new(MockUserStore)
	svc := newTestService(store)

	user, err := svc.Me(context.Background(), nil)

	assert.Nil(t, user)
	assertAppErrorCode(t, err, CodeUnauthenticated)
	assert.Contains(t, err.Error(), "Not Authenticated")
	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMeReturnsOwnRecord(t *testing.T) {
	id := uuid.New()
	stored := &repo.User{
		ID:       id,
		Username: "alice",
		Email:    "a@x.com",
		SavedBooks: []repo.Book{
			{BookID: "b1", Title: "Dune", Authors: []string{"Frank Herbert"}},
		},
	}
	store := new(MockUserStore)
	store.On("FindByID", mock.Anything, id).Return(stored, nil)

	user, err := newTestService(store).Me(context.Background(), &auth.Identity{ID: id})

	assert.NoError(t, err)
	assert.Equal(t, stored, user)
}

func TestMeWithStaleIdentityYieldsNil(t *testing.T) {
	id := uuid.New()
	store := new(MockUserStore)
	store.On("FindByID", mock.Anything, id).Return(nil, nil)

	user, err := newTestService(store).Me(context.Background(), &auth.Identity{ID: id})

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateUserHashesPasswordAndIssuesToken(t *testing.T) {
	store := new(MockUserStore)
	var created repo.User
	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u repo.User) bool {
		return u.Username == "alice" &&
			u.Email == "a@x.com" &&
			u.PasswordHash != "p4ssword" &&
			auth.CheckPassword(u.PasswordHash, "p4ssword") == nil &&
			len(u.SavedBooks) == 0
	})).Run(func(args mock.Arguments) {
		created = args.Get(1).(repo.User)
	}).Return(repo.User{}, nil).Once()
	store.On("CreateUser", mock.Anything, mock.Anything).Return(repo.User{}, nil).Maybe()

	svc := newTestService(store)
	payload, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "  alice ",
		Email:    " A@X.com ",
		Password: "p4ssword",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, payload.Token)
	store.AssertExpectations(t)
}

func TestCreateUserTokenCarriesUsernameEmailAndID(t *testing.T) {
	stored := repo.User{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
	store := new(MockUserStore)
	store.On("CreateUser", mock.Anything, mock.Anything).Return(stored, nil)

	payload, err := newTestService(store).CreateUser(context.Background(), CreateUserInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "p4ssword",
	})

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("token|alice|a@x.com|%s", stored.ID), payload.Token)
	assert.Zero(t, payload.User.SavedBooks)
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	store := new(MockUserStore)
	svc := newTestService(store)

	cases := []CreateUserInput{
		{Username: "", Email: "a@x.com", Password: "p4ssword"},
		{Username: "   ", Email: "a@x.com", Password: "p4ssword"},
		{Username: "alice", Email: "not-an-email", Password: "p4ssword"},
		{Username: "alice", Email: "a@x.com", Password: "p"},
		{Username: "alice", Email: "a@x.com", Password: "p4ssword",
			SavedBooks: []BookInput{{BookID: "b1", Title: "Dune"}}}, // no authors
	}

	for _, in := range cases {
		_, err := svc.CreateUser(context.Background(), in)
		assertAppErrorCode(t, err, CodeBadUserInput)
	}
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUserSurfacesStoreConflict(t *testing.T) {
	store := new(MockUserStore)
	store.On("CreateUser", mock.Anything, mock.Anything).Return(repo.User{}, repo.ErrDuplicate)

	_, err := newTestService(store).CreateUser(context.Background(), CreateUserInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "p4ssword",
	})

	assertAppErrorCode(t, err, CodeConflict)
}

func TestLoginUnknownEmailFailsAuthentication(t *testing.T) {
	store := new(MockUserStore)
	store.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, nil)

	payload, err := newTestService(store).Login(context.Background(), "ghost@x.com", "whatever")

	assert.Empty(t, payload.Token)
	assertAppErrorCode(t, err, CodeUnauthenticated)
	assert.Contains(t, err.Error(), "Not authenticated")
}

func TestLoginWrongPasswordFailsAuthentication(t *testing.T) {
	hash, err := auth.HashPassword("right", bcrypt.MinCost)
	assert.NoError(t, err)

	store := new(MockUserStore)
	store.On("FindByEmail", mock.Anything, "a@x.com").
		Return(&repo.User{ID: uuid.New(), Username: "alice", Email: "a@x.com", PasswordHash: hash}, nil)

	payload, err := newTestService(store).Login(context.Background(), "a@x.com", "wrong")

	assert.Empty(t, payload.Token)
	assertAppErrorCode(t, err, CodeUnauthenticated)
	assert.Contains(t, err.Error(), "Not authenticated")
}

func TestLoginSuccessNormalizesEmailAndIssuesToken(t *testing.T) {
	hash, err := auth.HashPassword("right", bcrypt.MinCost)
	assert.NoError(t, err)

	stored := &repo.User{ID: uuid.New(), Username: "alice", Email: "a@x.com", PasswordHash: hash}
	store := new(MockUserStore)
	store.On("FindByEmail", mock.Anything, "a@x.com").Return(stored, nil)

	payload, err := newTestService(store).Login(context.Background(), "  A@X.com ", "right")

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("token|alice|a@x.com|%s", stored.ID), payload.Token)
	assert.Equal(t, *stored, payload.User)
}

func TestSaveBookWithoutIdentityMutatesNothing(t *testing.T) {
	store := new(MockUserStore)
	svc := newTestService(store)

	user, err := svc.SaveBook(context.Background(), nil, validBook())

	assert.Nil(t, user)
	assertAppErrorCode(t, err, CodeUnauthenticated)
	assert.Contains(t, err.Error(), "Could not find user")
	store.AssertNotCalled(t, "AddSavedBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveBookRejectsBookWithoutAuthors(t *testing.T) {
	store := new(MockUserStore)
	in := validBook()
	in.Authors = nil

	_, err := newTestService(store).SaveBook(context.Background(), &auth.Identity{ID: uuid.New()}, in)

	assertAppErrorCode(t, err, CodeBadUserInput)
	store.AssertNotCalled(t, "AddSavedBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveBookPassesCanonicalBookToStore(t *testing.T) {
	id := uuid.New()
	updated := &repo.User{ID: id, Username: "alice", SavedBooks: []repo.Book{
		{BookID: "gbooks-123", Title: "Dune", Authors: []string{"Frank Herbert"}},
	}}

	store := new(MockUserStore)
	store.On("AddSavedBook", mock.Anything, id, repo.Book{
		BookID:  "gbooks-123",
		Title:   "Dune",
		Authors: []string{"Frank Herbert"},
	}).Return(updated, nil)

	user, err := newTestService(store).SaveBook(context.Background(), &auth.Identity{ID: id}, validBook())

	assert.NoError(t, err)
	assert.Equal(t, updated, user)
	store.AssertExpectations(t)
}

func TestSaveBookStaleIdentityYieldsNil(t *testing.T) {
	id := uuid.New()
	store := new(MockUserStore)
	store.On("AddSavedBook", mock.Anything, id, mock.Anything).Return(nil, nil)

	user, err := newTestService(store).SaveBook(context.Background(), &auth.Identity{ID: id}, validBook())

	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestDeleteBookWithoutIdentityMutatesNothing(t *testing.T) {
	store := new(MockUserStore)

	user, err := newTestService(store).DeleteBook(context.Background(), nil, "gbooks-123")

	assert.Nil(t, user)
	assertAppErrorCode(t, err, CodeUnauthenticated)
	assert.Contains(t, err.Error(), "Could not find user")
	store.AssertNotCalled(t, "RemoveSavedBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBookEmptyBookIDIsStillSuccess(t *testing.T) {
	// "" is a valid bookId value; it matches no stored entry and the delete
	// is a no-op, not an error.
	id := uuid.New()
	unchanged := &repo.User{ID: id, Username: "alice", SavedBooks: []repo.Book{
		{BookID: "other", Title: "Dune", Authors: []string{"Frank Herbert"}},
	}}

	store := new(MockUserStore)
	store.On("RemoveSavedBook", mock.Anything, id, "").Return(unchanged, nil)

	user, err := newTestService(store).DeleteBook(context.Background(), &auth.Identity{ID: id}, "")

	assert.NoError(t, err)
	assert.Equal(t, unchanged, user)
	store.AssertExpectations(t)
}

func TestDeleteBookNoMatchIsStillSuccess(t *testing.T) {
	id := uuid.New()
	unchanged := &repo.User{ID: id, Username: "alice", SavedBooks: []repo.Book{
		{BookID: "other", Title: "Dune", Authors: []string{"Frank Herbert"}},
	}}

	store := new(MockUserStore)
	store.On("RemoveSavedBook", mock.Anything, id, "gbooks-123").Return(unchanged, nil)

	user, err := newTestService(store).DeleteBook(context.Background(), &auth.Identity{ID: id}, "gbooks-123")

	assert.NoError(t, err)
	assert.Equal(t, unchanged, user)
}

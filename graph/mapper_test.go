package graph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lenawood/shelfmark/graph/model"
	"github.com/lenawood/shelfmark/internal/db/repo"
)

func TestToModelUserBookCountTracksSavedBooks(t *testing.T) {
	u := repo.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
		SavedBooks: []repo.Book{
			{BookID: "b1", Title: "Dune", Authors: []string{"Frank Herbert"}},
			{BookID: "b2", Title: "Hyperion", Authors: []string{"Dan Simmons"}},
		},
	}

	out := toModelUser(u)

	assert.Equal(t, u.ID.String(), out.ID)
	assert.Equal(t, 2, out.BookCount)
	assert.Len(t, out.SavedBooks, 2)
}

func TestToModelUserEmptyShelf(t *testing.T) {
	out := toModelUser(repo.User{ID: uuid.New(), Username: "alice"})

	assert.Equal(t, 0, out.BookCount)
	assert.NotNil(t, out.SavedBooks)
	assert.Empty(t, out.SavedBooks)
}

func TestToModelBookOptionalFields(t *testing.T) {
	out := toModelBook(repo.Book{BookID: "b1", Title: "Dune", Link: "https://example.com/dune"})

	assert.Nil(t, out.Description)
	assert.Nil(t, out.Image)
	if assert.NotNil(t, out.Link) {
		assert.Equal(t, "https://example.com/dune", *out.Link)
	}
	assert.NotNil(t, out.Authors)
}

func TestToServiceBooksSkipsNilEntries(t *testing.T) {
	desc := "a desert planet"
	in := []*model.BookInput{
		nil,
		{BookID: "b1", Title: "Dune", Authors: []string{"Frank Herbert"}, Description: &desc},
	}

	out := toServiceBooks(in)

	assert.Len(t, out, 1)
	assert.Equal(t, "b1", out[0].BookID)
	assert.Equal(t, "a desert planet", out[0].Description)
	assert.Empty(t, out[0].Image)
}

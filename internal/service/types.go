package service

import (
	"strings"

	"github.com/lenawood/shelfmark/internal/db/repo"
)

type CreateUserInput struct {
	Username   string `validate:"required"`
	Email      string `validate:"required,email"`
	Password   string `validate:"required,min=5"`
	SavedBooks []BookInput
}

// BookInput mirrors the shape delivered by the external book-search source.
// Image and link are optional but must be URLs when present; a book always
// names at least one author.
type BookInput struct {
	BookID      string   `validate:"required"`
	Title       string   `validate:"required"`
	Authors     []string `validate:"min=1,dive,required"`
	Description string
	Image       string `validate:"omitempty,url"`
	Link        string `validate:"omitempty,url"`
}

// AuthPayload pairs a freshly issued token with the user it identifies.
type AuthPayload struct {
	Token string
	User  repo.User
}

func (in BookInput) toBook() repo.Book {
	authors := in.Authors
	if authors == nil {
		authors = []string{}
	}
	return repo.Book{
		BookID:      in.BookID,
		Title:       in.Title,
		Authors:     authors,
		Description: in.Description,
		Image:       in.Image,
		Link:        in.Link,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

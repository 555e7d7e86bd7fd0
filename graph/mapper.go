package graph

import (
	"github.com/lenawood/shelfmark/graph/model"
	"github.com/lenawood/shelfmark/internal/db/repo"
	"github.com/lenawood/shelfmark/internal/service"
)

func toModelUser(u repo.User) *model.User {
	books := make([]*model.Book, 0, len(u.SavedBooks))
	for _, b := range u.SavedBooks {
		books = append(books, toModelBook(b))
	}

	return &model.User{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		BookCount:  len(u.SavedBooks),
		SavedBooks: books,
	}
}

func toModelBook(b repo.Book) *model.Book {
	authors := b.Authors
	if authors == nil {
		authors = []string{}
	}

	return &model.Book{
		BookID:      b.BookID,
		Title:       b.Title,
		Authors:     authors,
		Description: optional(b.Description),
		Image:       optional(b.Image),
		Link:        optional(b.Link),
	}
}

func toServiceBooks(in []*model.BookInput) []service.BookInput {
	out := make([]service.BookInput, 0, len(in))
	for _, b := range in {
		if b == nil {
			continue
		}
		out = append(out, toServiceBook(b))
	}
	return out
}

func toServiceBook(in *model.BookInput) service.BookInput {
	return service.BookInput{
		BookID:      in.BookID,
		Title:       in.Title,
		Authors:     in.Authors,
		Description: stringValue(in.Description),
		Image:       stringValue(in.Image),
		Link:        stringValue(in.Link),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func stringValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

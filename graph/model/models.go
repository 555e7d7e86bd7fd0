// Package model holds the GraphQL types the schema binds to. They are
// maintained by hand and picked up by gqlgen through autobind.
package model

type User struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	BookCount  int     `json:"bookCount"`
	SavedBooks []*Book `json:"savedBooks"`
}

type Book struct {
	BookID      string   `json:"bookId"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Link        *string  `json:"link,omitempty"`
}

type Auth struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type CreateUserInput struct {
	Username   string       `json:"username"`
	Email      string       `json:"email"`
	Password   string       `json:"password"`
	SavedBooks []*BookInput `json:"savedBooks,omitempty"`
}

type BookInput struct {
	Authors     []string `json:"authors"`
	Description *string  `json:"description,omitempty"`
	BookID      string   `json:"bookId"`
	Image       *string  `json:"image,omitempty"`
	Link        *string  `json:"link,omitempty"`
	Title       string   `json:"title"`
}

package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.45

import (
	"context"

	"github.com/lenawood/shelfmark/graph/model"
	"github.com/lenawood/shelfmark/internal/auth"
	"github.com/lenawood/shelfmark/internal/service"
)

// CreateUser is the resolver for the createUser field.
func (r *mutationResolver) CreateUser(ctx context.Context, input model.CreateUserInput) (*model.Auth, error) {
	payload, err := r.Service.CreateUser(ctx, service.CreateUserInput{
		Username:   input.Username,
		Email:      input.Email,
		Password:   input.Password,
		SavedBooks: toServiceBooks(input.SavedBooks),
	})
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return &model.Auth{Token: payload.Token, User: toModelUser(payload.User)}, nil
}

// LoginUser is the resolver for the loginUser field.
func (r *mutationResolver) LoginUser(ctx context.Context, email string, password string) (*model.Auth, error) {
	payload, err := r.Service.Login(ctx, email, password)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	return &model.Auth{Token: payload.Token, User: toModelUser(payload.User)}, nil
}

// SaveBook is the resolver for the saveBook field.
func (r *mutationResolver) SaveBook(ctx context.Context, input model.BookInput) (*model.User, error) {
	user, err := r.Service.SaveBook(ctx, auth.IdentityFromContext(ctx), toServiceBook(&input))
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if user == nil {
		return nil, nil
	}
	return toModelUser(*user), nil
}

// DeleteBook is the resolver for the deleteBook field.
func (r *mutationResolver) DeleteBook(ctx context.Context, bookID string) (*model.User, error) {
	user, err := r.Service.DeleteBook(ctx, auth.IdentityFromContext(ctx), bookID)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if user == nil {
		return nil, nil
	}
	return toModelUser(*user), nil
}

// User is the resolver for the user field.
func (r *queryResolver) User(ctx context.Context, username string) (*model.User, error) {
	user, err := r.Service.UserByUsername(ctx, username)
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if user == nil {
		return nil, nil
	}
	return toModelUser(*user), nil
}

// Me is the resolver for the me field.
func (r *queryResolver) Me(ctx context.Context) (*model.User, error) {
	user, err := r.Service.Me(ctx, auth.IdentityFromContext(ctx))
	if err != nil {
		return nil, asGraphQLError(err)
	}
	if user == nil {
		return nil, nil
	}
	return toModelUser(*user), nil
}

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }

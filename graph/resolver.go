package graph

import "github.com/lenawood/shelfmark/internal/service"

//go:generate go run github.com/99designs/gqlgen generate

// Resolver wires GraphQL resolvers to application services.
type Resolver struct {
	Service *service.Service
}

package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller's minimal reference. Its presence is
// the only authorization signal the API uses.
type Identity struct {
	ID uuid.UUID
}

type ctxKey struct{}

// WithIdentity attaches an authenticated identity to the request context.
func WithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, ident)
}

// IdentityFromContext returns the request identity, or nil when the request
// carried no valid token.
func IdentityFromContext(ctx context.Context) *Identity {
	ident, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return nil
	}
	return &ident
}

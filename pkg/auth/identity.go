package auth

import (
	"context"

	"modulith/pkg/domain"
)

// identityKey is the context key under which the authenticated user ID is stored.
type identityKey struct{}

// WithUserID returns a context carrying the authenticated user's ID.
// Set by the bearer-token middleware after successful verification.
func WithUserID(ctx context.Context, id domain.UserID) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// UserIDFromContext returns the authenticated user's ID, if any.
func UserIDFromContext(ctx context.Context) (domain.UserID, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.UserID)

	return id, ok
}

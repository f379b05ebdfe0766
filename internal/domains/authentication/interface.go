// Package authentication implements the user account domain: registration,
// credential verification, token issuing and user management.
package authentication

import (
	"context"

	"modulith/pkg/domain"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateInput carries a partial user update. Nil fields are left unchanged.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
}

// TokenPair is the result of a successful login or token refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service exposes the authentication domain's operations.
type Service interface {
	// Register creates a new user with a hashed password and announces it on
	// the bus. Fails with a conflict error when username or email is taken.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies credentials by username or email and issues a token pair.
	Login(ctx context.Context, login, password string) (*TokenPair, error)
	// Refresh exchanges a valid refresh token for a new token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	// User fetches a single user by ID.
	User(ctx context.Context, id domain.UserID) (*domain.User, error)
	// Users returns a page of users with an RFC3339 cursor.
	Users(ctx context.Context, cursor string, limit uint) ([]domain.User, string, error)
	// Update applies a partial update and announces the change on the bus.
	Update(ctx context.Context, id domain.UserID, input UpdateInput) (*domain.User, error)
	// Delete soft-deletes a user.
	Delete(ctx context.Context, id domain.UserID) error
}

package storage

import (
	"context"
	"time"

	"modulith/pkg/domain"
)

// UserUpdates describes optional fields applied to an existing user. Only
// non-nil fields are updated; updated_at is always set.
type UserUpdates struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

// UserPage groups a page of users with an optional cursor for the next page.
type UserPage struct {
	Users []domain.User
	// NextCursor is the created_at timestamp to fetch the next page from.
	// Nil when there is no next page.
	NextCursor *time.Time
}

// UserStorage defines CRUD and query operations for users. Lookups exclude
// soft-deleted records; fetch methods return nil (not an error) when no
// matching row exists.
type UserStorage interface {
	// StoreUser inserts a user and returns the stored row, including
	// generated fields.
	StoreUser(ctx context.Context, user domain.User) (*domain.User, error)
	// UserByID fetches a user by ID.
	UserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// UserByLogin fetches a user whose username or email equals login.
	UserByLogin(ctx context.Context, login string) (*domain.User, error)
	// UsernameOrEmailTaken reports whether another user (excluding the given
	// ID, when non-zero) already holds the username or email.
	UsernameOrEmailTaken(ctx context.Context, username, email string, exclude domain.UserID) (bool, error)
	// Users returns a page of users created before the optional cursor,
	// newest first, limited by limit. A zero limit yields an empty page.
	Users(ctx context.Context, cursor time.Time, limit uint) (UserPage, error)
	// UpdateUserByID applies the provided updates and returns the updated row.
	UpdateUserByID(ctx context.Context, id domain.UserID, updates UserUpdates) (*domain.User, error)
	// DeleteUser soft-deletes the user and returns the deleted row, or nil
	// when it was not found.
	DeleteUser(ctx context.Context, id domain.UserID) (*domain.User, error)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID uniquely identifies a user within the system.
// It is a thin wrapper around uuid.UUID to provide type safety at the domain layer.
type UserID uuid.UUID

// String returns the canonical string form of the ID.
func (id UserID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the zero UUID.
func (id UserID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText encodes the ID in its canonical string form for JSON and YAML.
func (id UserID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() } //nolint: wrapcheck

// UnmarshalText decodes the ID from its canonical string form.
func (id *UserID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) } //nolint: wrapcheck

// ParseUserID parses a UserID from its canonical string form.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)

	return UserID(u), err //nolint: wrapcheck
}

// User represents an account managed by the authentication domain.
// Passwords are never stored in plain text; PasswordHash carries the
// argon2id encoding of the password.
type User struct {
	// ID is the unique identifier of the user.
	ID UserID `json:"id"`

	// Username is the unique login name, at most 30 characters.
	Username string `json:"username"`
	// Email is the unique email address, at most 50 characters.
	Email string `json:"email"`
	// PasswordHash is the encoded password hash. It is never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the time when the user record was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the time when the user was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
	// DeletedAt marks when the user was soft-deleted; zero value means not deleted.
	DeletedAt time.Time `json:"-"`
}

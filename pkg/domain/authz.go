package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoleID uniquely identifies a role.
type RoleID uuid.UUID

// String returns the canonical string form of the ID.
func (id RoleID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID in its canonical string form for JSON and YAML.
func (id RoleID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() } //nolint: wrapcheck

// UnmarshalText decodes the ID from its canonical string form.
func (id *RoleID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) } //nolint: wrapcheck

// ParseRoleID parses a RoleID from its canonical string form.
func ParseRoleID(s string) (RoleID, error) {
	u, err := uuid.Parse(s)

	return RoleID(u), err //nolint: wrapcheck
}

// PermissionID uniquely identifies a permission.
type PermissionID uuid.UUID

// String returns the canonical string form of the ID.
func (id PermissionID) String() string { return uuid.UUID(id).String() }

// MarshalText encodes the ID in its canonical string form for JSON and YAML.
func (id PermissionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() } //nolint: wrapcheck

// UnmarshalText decodes the ID from its canonical string form.
func (id *PermissionID) UnmarshalText(b []byte) error { return (*uuid.UUID)(id).UnmarshalText(b) } //nolint: wrapcheck

// ParsePermissionID parses a PermissionID from its canonical string form.
func ParsePermissionID(s string) (PermissionID, error) {
	u, err := uuid.Parse(s)

	return PermissionID(u), err //nolint: wrapcheck
}

// Role is a named grouping of permissions managed by the authorization domain.
type Role struct {
	ID RoleID `json:"id"`

	// Name is the unique role name, at most 50 characters.
	Name string `json:"name"`
	// Description is an optional human-readable summary.
	Description string `json:"description,omitempty"`
	// IsActive marks whether the role can be assigned to users.
	IsActive bool `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Permission grants the ability to perform an action on a resource.
// The (Resource, Action) pair is unique.
type Permission struct {
	ID PermissionID `json:"id"`

	// Resource names the protected subject, e.g. "users".
	Resource string `json:"resource"`
	// Action names the operation on the resource, e.g. "read".
	Action string `json:"action"`
	// Description is an optional human-readable summary.
	Description string `json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserRole assigns a role to a user. A user may hold many roles.
type UserRole struct {
	UserID UserID `json:"userId"`
	RoleID RoleID `json:"roleId"`

	CreatedAt time.Time `json:"createdAt"`
}

// RolePermission attaches a permission to a role.
type RolePermission struct {
	RoleID       RoleID       `json:"roleId"`
	PermissionID PermissionID `json:"permissionId"`

	CreatedAt time.Time `json:"createdAt"`
}

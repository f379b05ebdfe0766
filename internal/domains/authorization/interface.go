// Package authorization implements role-based access control: roles,
// permissions, their assignments and the default-role handling for newly
// registered users.
package authorization

import (
	"context"

	"modulith/pkg/domain"
)

// RoleInput carries a role creation request.
type RoleInput struct {
	Name        string
	Description string
	IsActive    bool
}

// RoleUpdateInput carries a partial role update. Nil fields are left unchanged.
type RoleUpdateInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// PermissionInput carries a permission creation request.
type PermissionInput struct {
	Resource    string
	Action      string
	Description string
}

// PermissionUpdateInput carries a partial permission update. Nil fields are
// left unchanged.
type PermissionUpdateInput struct {
	Resource    *string
	Action      *string
	Description *string
}

// Service exposes the authorization domain's operations.
type Service interface {
	// CreateRole creates a role with a unique name.
	CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error)
	// Role fetches a role by ID.
	Role(ctx context.Context, id domain.RoleID) (*domain.Role, error)
	// Roles lists all roles ordered by name.
	Roles(ctx context.Context) ([]domain.Role, error)
	// UpdateRole applies a partial update, keeping names unique.
	UpdateRole(ctx context.Context, id domain.RoleID, input RoleUpdateInput) (*domain.Role, error)
	// DeleteRole removes a role and all of its assignments.
	DeleteRole(ctx context.Context, id domain.RoleID) error

	// CreatePermission creates a permission with a unique (resource, action) pair.
	CreatePermission(ctx context.Context, input PermissionInput) (*domain.Permission, error)
	// Permission fetches a permission by ID.
	Permission(ctx context.Context, id domain.PermissionID) (*domain.Permission, error)
	// Permissions lists all permissions ordered by resource, then action.
	Permissions(ctx context.Context) ([]domain.Permission, error)
	// UpdatePermission applies a partial update, keeping pairs unique.
	UpdatePermission(ctx context.Context,
		id domain.PermissionID,
		input PermissionUpdateInput) (*domain.Permission, error)
	// DeletePermission removes a permission and its attachments.
	DeletePermission(ctx context.Context, id domain.PermissionID) error

	// RolePermissions returns the permissions attached to a role.
	RolePermissions(ctx context.Context, roleID domain.RoleID) ([]domain.Permission, error)
	// SyncRolePermissions makes the role's attachments exactly the given set,
	// attaching missing permissions and detaching removed ones.
	SyncRolePermissions(ctx context.Context,
		roleID domain.RoleID,
		permissionIDs []domain.PermissionID) error

	// UserRoles returns the roles assigned to a user.
	UserRoles(ctx context.Context, userID domain.UserID) ([]domain.Role, error)
	// SyncUserRoles makes the user's assignments exactly the given set.
	SyncUserRoles(ctx context.Context, userID domain.UserID, roleIDs []domain.RoleID) error

	// UserPermissions returns the distinct permissions a user holds through
	// active roles.
	UserPermissions(ctx context.Context, userID domain.UserID) ([]domain.Permission, error)
	// AssignDefaultRoles assigns the default role to a user, typically in
	// response to a user announcement. Missing default roles are skipped.
	AssignDefaultRoles(ctx context.Context, userID domain.UserID) error
}

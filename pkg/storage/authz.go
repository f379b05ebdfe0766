package storage

import (
	"context"

	"modulith/pkg/domain"
)

// RoleUpdates describes optional fields applied to an existing role.
type RoleUpdates struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// PermissionUpdates describes optional fields applied to an existing permission.
type PermissionUpdates struct {
	Resource    *string
	Action      *string
	Description *string
}

// RoleStorage defines CRUD and assignment operations for roles. Fetch
// methods return nil (not an error) when no matching row exists.
type RoleStorage interface {
	// StoreRoles inserts one or more roles and returns the stored rows.
	StoreRoles(ctx context.Context, roles ...domain.Role) ([]domain.Role, error)
	// RoleByID fetches a role by ID.
	RoleByID(ctx context.Context, id domain.RoleID) (*domain.Role, error)
	// RolesByNames returns the roles whose names are in the given set.
	RolesByNames(ctx context.Context, names []string) ([]domain.Role, error)
	// RolesByIDs returns the roles whose IDs are in the given set.
	RolesByIDs(ctx context.Context, ids []domain.RoleID) ([]domain.Role, error)
	// Roles lists all roles ordered by name.
	Roles(ctx context.Context) ([]domain.Role, error)
	// UpdateRoleByID applies the provided updates and returns the updated row.
	UpdateRoleByID(ctx context.Context, id domain.RoleID, updates RoleUpdates) (*domain.Role, error)
	// DeleteRole removes the role and returns the deleted row, or nil when it
	// was not found. Assignments referencing the role are removed with it.
	DeleteRole(ctx context.Context, id domain.RoleID) (*domain.Role, error)

	// UserRoles returns the role assignments of a user.
	UserRoles(ctx context.Context, userID domain.UserID) ([]domain.UserRole, error)
	// AddUserRoles assigns roles to a user. Existing assignments are kept.
	AddUserRoles(ctx context.Context, userID domain.UserID, roleIDs []domain.RoleID) error
	// RemoveUserRoles removes role assignments from a user.
	RemoveUserRoles(ctx context.Context, userID domain.UserID, roleIDs []domain.RoleID) error
}

// PermissionStorage defines CRUD and attachment operations for permissions.
// Fetch methods return nil (not an error) when no matching row exists.
type PermissionStorage interface {
	// StorePermissions inserts one or more permissions and returns the stored rows.
	StorePermissions(ctx context.Context, permissions ...domain.Permission) ([]domain.Permission, error)
	// PermissionByID fetches a permission by ID.
	PermissionByID(ctx context.Context, id domain.PermissionID) (*domain.Permission, error)
	// PermissionsByIDs returns the permissions whose IDs are in the given set.
	PermissionsByIDs(ctx context.Context, ids []domain.PermissionID) ([]domain.Permission, error)
	// PermissionByResourceAction fetches a permission by its unique
	// (resource, action) pair.
	PermissionByResourceAction(ctx context.Context, resource, action string) (*domain.Permission, error)
	// Permissions lists all permissions ordered by resource, then action.
	Permissions(ctx context.Context) ([]domain.Permission, error)
	// UpdatePermissionByID applies the provided updates and returns the updated row.
	UpdatePermissionByID(ctx context.Context,
		id domain.PermissionID,
		updates PermissionUpdates) (*domain.Permission, error)
	// DeletePermission removes the permission and returns the deleted row, or
	// nil when it was not found.
	DeletePermission(ctx context.Context, id domain.PermissionID) (*domain.Permission, error)

	// RolePermissions returns the permission attachments of a role.
	RolePermissions(ctx context.Context, roleID domain.RoleID) ([]domain.RolePermission, error)
	// AddRolePermissions attaches permissions to a role. Existing attachments are kept.
	AddRolePermissions(ctx context.Context, roleID domain.RoleID, permissionIDs []domain.PermissionID) error
	// RemoveRolePermissions detaches permissions from a role.
	RemoveRolePermissions(ctx context.Context, roleID domain.RoleID, permissionIDs []domain.PermissionID) error

	// UserPermissions returns the distinct permissions a user holds through
	// active roles.
	UserPermissions(ctx context.Context, userID domain.UserID) ([]domain.Permission, error)
}

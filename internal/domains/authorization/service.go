package authorization

import (
	"context"
	"fmt"

	"modulith/pkg/domain"
	"modulith/pkg/logger"
	"modulith/pkg/serrors"
	"modulith/pkg/storage"

	"go.uber.org/zap"
)

const (
	maxRoleNameLength = 50
	maxResourceLength = 50
	maxActionLength   = 50

	// DefaultRoleName is assigned to every newly registered user.
	DefaultRoleName = "user"
)

// service is the concrete implementation of the Service interface.
type service struct {
	storage storage.Storage
}

// New creates a new Service backed by the provided storage.
func New(store storage.Storage) Service {
	return &service{storage: store}
}

func validateRoleName(name string) error {
	if name == "" || len(name) > maxRoleNameLength {
		return serrors.With(serrors.ErrBadRequest,
			"role name must be between 1 and %d characters", maxRoleNameLength)
	}

	return nil
}

func validateResourceAction(resource, action string) error {
	if resource == "" || len(resource) > maxResourceLength {
		return serrors.With(serrors.ErrBadRequest,
			"resource must be between 1 and %d characters", maxResourceLength)
	}
	if action == "" || len(action) > maxActionLength {
		return serrors.With(serrors.ErrBadRequest,
			"action must be between 1 and %d characters", maxActionLength)
	}

	return nil
}

func (s *service) CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error) {
	if err := validateRoleName(input.Name); err != nil {
		return nil, err
	}

	var role *domain.Role
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		existing, err := tx.RolesByNames(ctx, []string{input.Name})
		if err != nil {
			return fmt.Errorf("could not check role name uniqueness: %w", err)
		}
		if len(existing) > 0 {
			return serrors.With(serrors.ErrConflict, "role %q already exists", input.Name)
		}

		stored, err := tx.StoreRoles(ctx, domain.Role{
			Name:        input.Name,
			Description: input.Description,
			IsActive:    input.IsActive,
		})
		if err != nil {
			return fmt.Errorf("could not store role: %w", err)
		}
		role = &stored[0]

		return nil
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return role, nil
}

func (s *service) Role(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	role, err := s.storage.RoleByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get role: %w", err)
	}
	if role == nil {
		return nil, serrors.With(serrors.ErrNotFound, "role not found")
	}

	return role, nil
}

func (s *service) Roles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.storage.Roles(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list roles: %w", err)
	}

	return roles, nil
}

func (s *service) UpdateRole(ctx context.Context,
	id domain.RoleID,
	input RoleUpdateInput) (*domain.Role, error) {
	if input.Name != nil {
		if err := validateRoleName(*input.Name); err != nil {
			return nil, err
		}
	}

	var role *domain.Role
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		if input.Name != nil {
			existing, err := tx.RolesByNames(ctx, []string{*input.Name})
			if err != nil {
				return fmt.Errorf("could not check role name uniqueness: %w", err)
			}
			if len(existing) > 0 && existing[0].ID != id {
				return serrors.With(serrors.ErrConflict, "role %q already exists", *input.Name)
			}
		}

		var err error
		role, err = tx.UpdateRoleByID(ctx, id, storage.RoleUpdates{
			Name:        input.Name,
			Description: input.Description,
			IsActive:    input.IsActive,
		})
		if err != nil {
			return fmt.Errorf("could not update role: %w", err)
		}
		if role == nil {
			return serrors.With(serrors.ErrNotFound, "role not found")
		}

		return nil
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return role, nil
}

func (s *service) DeleteRole(ctx context.Context, id domain.RoleID) error {
	role, err := s.storage.DeleteRole(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete role: %w", err)
	}
	if role == nil {
		return serrors.With(serrors.ErrNotFound, "role not found")
	}

	return nil
}

func (s *service) CreatePermission(ctx context.Context,
	input PermissionInput) (*domain.Permission, error) {
	if err := validateResourceAction(input.Resource, input.Action); err != nil {
		return nil, err
	}

	var permission *domain.Permission
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		existing, err := tx.PermissionByResourceAction(ctx, input.Resource, input.Action)
		if err != nil {
			return fmt.Errorf("could not check permission uniqueness: %w", err)
		}
		if existing != nil {
			return serrors.With(serrors.ErrConflict,
				"permission %s:%s already exists", input.Resource, input.Action)
		}

		stored, err := tx.StorePermissions(ctx, domain.Permission{
			Resource:    input.Resource,
			Action:      input.Action,
			Description: input.Description,
		})
		if err != nil {
			return fmt.Errorf("could not store permission: %w", err)
		}
		permission = &stored[0]

		return nil
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return permission, nil
}

func (s *service) Permission(ctx context.Context,
	id domain.PermissionID) (*domain.Permission, error) {
	permission, err := s.storage.PermissionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get permission: %w", err)
	}
	if permission == nil {
		return nil, serrors.With(serrors.ErrNotFound, "permission not found")
	}

	return permission, nil
}

func (s *service) Permissions(ctx context.Context) ([]domain.Permission, error) {
	permissions, err := s.storage.Permissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list permissions: %w", err)
	}

	return permissions, nil
}

func (s *service) UpdatePermission(ctx context.Context,
	id domain.PermissionID,
	input PermissionUpdateInput) (*domain.Permission, error) {
	var permission *domain.Permission
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		current, err := tx.PermissionByID(ctx, id)
		if err != nil {
			return fmt.Errorf("could not get permission: %w", err)
		}
		if current == nil {
			return serrors.With(serrors.ErrNotFound, "permission not found")
		}

		resource := current.Resource
		if input.Resource != nil {
			resource = *input.Resource
		}
		action := current.Action
		if input.Action != nil {
			action = *input.Action
		}
		if err := validateResourceAction(resource, action); err != nil {
			return err
		}

		existing, err := tx.PermissionByResourceAction(ctx, resource, action)
		if err != nil {
			return fmt.Errorf("could not check permission uniqueness: %w", err)
		}
		if existing != nil && existing.ID != id {
			return serrors.With(serrors.ErrConflict,
				"permission %s:%s already exists", resource, action)
		}

		permission, err = tx.UpdatePermissionByID(ctx, id, storage.PermissionUpdates{
			Resource:    input.Resource,
			Action:      input.Action,
			Description: input.Description,
		})
		if err != nil {
			return fmt.Errorf("could not update permission: %w", err)
		}

		return nil
	}); err != nil {
		return nil, err //nolint: wrapcheck
	}

	return permission, nil
}

func (s *service) DeletePermission(ctx context.Context, id domain.PermissionID) error {
	permission, err := s.storage.DeletePermission(ctx, id)
	if err != nil {
		return fmt.Errorf("could not delete permission: %w", err)
	}
	if permission == nil {
		return serrors.With(serrors.ErrNotFound, "permission not found")
	}

	return nil
}

func (s *service) RolePermissions(ctx context.Context,
	roleID domain.RoleID) ([]domain.Permission, error) {
	role, err := s.storage.RoleByID(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("could not get role: %w", err)
	}
	if role == nil {
		return nil, serrors.With(serrors.ErrNotFound, "role not found")
	}

	attachments, err := s.storage.RolePermissions(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("could not get role permissions: %w", err)
	}

	ids := make([]domain.PermissionID, 0, len(attachments))
	for _, attachment := range attachments {
		ids = append(ids, attachment.PermissionID)
	}

	permissions, err := s.storage.PermissionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not get permissions: %w", err)
	}

	return permissions, nil
}

// SyncRolePermissions computes the difference between the current and the
// desired attachment sets and applies only the delta, so repeated syncs with
// the same set are no-ops.
func (s *service) SyncRolePermissions(ctx context.Context,
	roleID domain.RoleID,
	permissionIDs []domain.PermissionID) error {
	return s.storage.WithTx(ctx, func(tx storage.AllStorage) error { //nolint: wrapcheck
		role, err := tx.RoleByID(ctx, roleID)
		if err != nil {
			return fmt.Errorf("could not get role: %w", err)
		}
		if role == nil {
			return serrors.With(serrors.ErrNotFound, "role not found")
		}

		desired := make(map[domain.PermissionID]bool, len(permissionIDs))
		for _, id := range permissionIDs {
			desired[id] = true
		}

		known, err := tx.PermissionsByIDs(ctx, permissionIDs)
		if err != nil {
			return fmt.Errorf("could not get permissions: %w", err)
		}
		if len(known) != len(desired) {
			return serrors.With(serrors.ErrBadRequest, "unknown permission in sync set")
		}

		current, err := tx.RolePermissions(ctx, roleID)
		if err != nil {
			return fmt.Errorf("could not get role permissions: %w", err)
		}

		var toRemove []domain.PermissionID
		attached := make(map[domain.PermissionID]bool, len(current))
		for _, attachment := range current {
			attached[attachment.PermissionID] = true
			if !desired[attachment.PermissionID] {
				toRemove = append(toRemove, attachment.PermissionID)
			}
		}

		var toAdd []domain.PermissionID
		for id := range desired {
			if !attached[id] {
				toAdd = append(toAdd, id)
			}
		}

		if err := tx.AddRolePermissions(ctx, roleID, toAdd); err != nil {
			return fmt.Errorf("could not add role permissions: %w", err)
		}
		if err := tx.RemoveRolePermissions(ctx, roleID, toRemove); err != nil {
			return fmt.Errorf("could not remove role permissions: %w", err)
		}

		return nil
	})
}

func (s *service) UserRoles(ctx context.Context, userID domain.UserID) ([]domain.Role, error) {
	assignments, err := s.storage.UserRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get user roles: %w", err)
	}

	ids := make([]domain.RoleID, 0, len(assignments))
	for _, assignment := range assignments {
		ids = append(ids, assignment.RoleID)
	}

	roles, err := s.storage.RolesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("could not get roles: %w", err)
	}

	return roles, nil
}

// SyncUserRoles computes the difference between the current and the desired
// assignment sets and applies only the delta.
func (s *service) SyncUserRoles(ctx context.Context,
	userID domain.UserID,
	roleIDs []domain.RoleID) error {
	return s.storage.WithTx(ctx, func(tx storage.AllStorage) error { //nolint: wrapcheck
		user, err := tx.UserByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("could not get user: %w", err)
		}
		if user == nil {
			return serrors.With(serrors.ErrNotFound, "user not found")
		}

		desired := make(map[domain.RoleID]bool, len(roleIDs))
		for _, id := range roleIDs {
			desired[id] = true
		}

		known, err := tx.RolesByIDs(ctx, roleIDs)
		if err != nil {
			return fmt.Errorf("could not get roles: %w", err)
		}
		if len(known) != len(desired) {
			return serrors.With(serrors.ErrBadRequest, "unknown role in sync set")
		}

		current, err := tx.UserRoles(ctx, userID)
		if err != nil {
			return fmt.Errorf("could not get user roles: %w", err)
		}

		var toRemove []domain.RoleID
		assigned := make(map[domain.RoleID]bool, len(current))
		for _, assignment := range current {
			assigned[assignment.RoleID] = true
			if !desired[assignment.RoleID] {
				toRemove = append(toRemove, assignment.RoleID)
			}
		}

		var toAdd []domain.RoleID
		for id := range desired {
			if !assigned[id] {
				toAdd = append(toAdd, id)
			}
		}

		if err := tx.AddUserRoles(ctx, userID, toAdd); err != nil {
			return fmt.Errorf("could not add user roles: %w", err)
		}
		if err := tx.RemoveUserRoles(ctx, userID, toRemove); err != nil {
			return fmt.Errorf("could not remove user roles: %w", err)
		}

		return nil
	})
}

func (s *service) UserPermissions(ctx context.Context,
	userID domain.UserID) ([]domain.Permission, error) {
	permissions, err := s.storage.UserPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not get user permissions: %w", err)
	}

	return permissions, nil
}

// AssignDefaultRoles gives the user the default role. A missing default role
// is logged and skipped rather than failing the triggering operation.
func (s *service) AssignDefaultRoles(ctx context.Context, userID domain.UserID) error {
	roles, err := s.storage.RolesByNames(ctx, []string{DefaultRoleName})
	if err != nil {
		return fmt.Errorf("could not get default role: %w", err)
	}
	if len(roles) == 0 {
		logger.Warn(ctx, "default role missing, skipping assignment",
			zap.String("role", DefaultRoleName),
			zap.Stringer("user_id", userID))

		return nil
	}

	if err := s.storage.AddUserRoles(ctx, userID, []domain.RoleID{roles[0].ID}); err != nil {
		return fmt.Errorf("could not assign default role: %w", err)
	}

	return nil
}

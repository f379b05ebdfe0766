package authorization

import (
	"context"
	"fmt"

	"modulith/pkg/domain"
	"modulith/pkg/storage"
)

// Role names created by the seeder.
const (
	superadminRoleName = "superadmin"
	adminRoleName      = "admin"
)

// seedPermissions are the baseline permissions for managing the built-in
// resources.
var seedPermissions = []domain.Permission{ //nolint: gochecknoglobals
	{Resource: "users", Action: "read", Description: "List and inspect users"},
	{Resource: "users", Action: "write", Description: "Create, update and delete users"},
	{Resource: "roles", Action: "read", Description: "List and inspect roles"},
	{Resource: "roles", Action: "write", Description: "Create, update and delete roles"},
	{Resource: "permissions", Action: "read", Description: "List and inspect permissions"},
	{Resource: "permissions", Action: "write", Description: "Create, update and delete permissions"},
}

// seedRolePermissions maps seeded role names to the (resource, action) pairs
// they get. Superadmin gets everything.
var seedRolePermissions = map[string][][2]string{ //nolint: gochecknoglobals
	adminRoleName: {
		{"users", "read"}, {"users", "write"},
		{"roles", "read"},
		{"permissions", "read"},
	},
	DefaultRoleName: {
		{"users", "read"},
	},
}

// seed creates the built-in roles and permissions and attaches them. It is
// idempotent: existing rows are reused and attachment inserts ignore
// duplicates. The seeded admin account, when present, gets the superadmin
// role.
func seed(ctx context.Context, store storage.Storage) error {
	return store.WithTx(ctx, func(tx storage.AllStorage) error { //nolint: wrapcheck
		roles, err := seedRoles(ctx, tx)
		if err != nil {
			return err
		}

		permissions, err := seedPermissionRows(ctx, tx)
		if err != nil {
			return err
		}

		if err := attachSeedPermissions(ctx, tx, roles, permissions); err != nil {
			return err
		}

		return assignSuperadmin(ctx, tx, roles)
	})
}

func seedRoles(ctx context.Context, tx storage.AllStorage) (map[string]domain.Role, error) {
	names := []string{superadminRoleName, adminRoleName, DefaultRoleName}

	existing, err := tx.RolesByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("could not fetch seeded roles: %w", err)
	}

	roles := make(map[string]domain.Role, len(names))
	for _, role := range existing {
		roles[role.Name] = role
	}

	var missing []domain.Role
	descriptions := map[string]string{
		superadminRoleName: "Unrestricted access",
		adminRoleName:      "User and role administration",
		DefaultRoleName:    "Default role for registered users",
	}
	for _, name := range names {
		if _, ok := roles[name]; !ok {
			missing = append(missing, domain.Role{
				Name:        name,
				Description: descriptions[name],
				IsActive:    true,
			})
		}
	}

	if len(missing) > 0 {
		stored, err := tx.StoreRoles(ctx, missing...)
		if err != nil {
			return nil, fmt.Errorf("could not store seeded roles: %w", err)
		}
		for _, role := range stored {
			roles[role.Name] = role
		}
	}

	return roles, nil
}

func seedPermissionRows(ctx context.Context,
	tx storage.AllStorage) (map[[2]string]domain.Permission, error) {
	permissions := make(map[[2]string]domain.Permission, len(seedPermissions))

	var missing []domain.Permission
	for _, permission := range seedPermissions {
		existing, err := tx.PermissionByResourceAction(ctx, permission.Resource, permission.Action)
		if err != nil {
			return nil, fmt.Errorf("could not fetch seeded permission: %w", err)
		}
		if existing != nil {
			permissions[[2]string{permission.Resource, permission.Action}] = *existing

			continue
		}
		missing = append(missing, permission)
	}

	if len(missing) > 0 {
		stored, err := tx.StorePermissions(ctx, missing...)
		if err != nil {
			return nil, fmt.Errorf("could not store seeded permissions: %w", err)
		}
		for _, permission := range stored {
			permissions[[2]string{permission.Resource, permission.Action}] = permission
		}
	}

	return permissions, nil
}

func attachSeedPermissions(ctx context.Context,
	tx storage.AllStorage,
	roles map[string]domain.Role,
	permissions map[[2]string]domain.Permission) error {
	// superadmin gets every seeded permission
	all := make([]domain.PermissionID, 0, len(permissions))
	for _, permission := range permissions {
		all = append(all, permission.ID)
	}
	if err := tx.AddRolePermissions(ctx, roles[superadminRoleName].ID, all); err != nil {
		return fmt.Errorf("could not attach superadmin permissions: %w", err)
	}

	for roleName, pairs := range seedRolePermissions {
		ids := make([]domain.PermissionID, 0, len(pairs))
		for _, pair := range pairs {
			ids = append(ids, permissions[pair].ID)
		}
		if err := tx.AddRolePermissions(ctx, roles[roleName].ID, ids); err != nil {
			return fmt.Errorf("could not attach %s permissions: %w", roleName, err)
		}
	}

	return nil
}

// assignSuperadmin gives the seeded admin account the superadmin role. When
// the authentication domain is installed it seeds that account first, since
// domains seed in configuration order.
func assignSuperadmin(ctx context.Context, tx storage.AllStorage, roles map[string]domain.Role) error {
	admin, err := tx.UserByLogin(ctx, "admin")
	if err != nil {
		return fmt.Errorf("could not look up admin account: %w", err)
	}
	if admin == nil {
		return nil
	}

	if err := tx.AddUserRoles(ctx, admin.ID, []domain.RoleID{roles[superadminRoleName].ID}); err != nil {
		return fmt.Errorf("could not assign superadmin role: %w", err)
	}

	return nil
}

package authorization_test

import (
	"context"
	"testing"

	"modulith/internal/domains/authorization"
	"modulith/pkg/domain"
	"modulith/pkg/logger"
	"modulith/pkg/serrors"
	"modulith/pkg/storage/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*memory.Memory, authorization.Service) {
	t.Helper()

	logger.Setup(logger.DevelopmentEnvironment)
	st := memory.New()

	return st, authorization.New(st)
}

func storeUser(t *testing.T, st *memory.Memory, username string) *domain.User {
	t.Helper()

	user, err := st.StoreUser(context.Background(), domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err)

	return user
}

func createRole(t *testing.T, svc authorization.Service, name string) *domain.Role {
	t.Helper()

	role, err := svc.CreateRole(context.Background(), authorization.RoleInput{
		Name:     name,
		IsActive: true,
	})
	require.NoError(t, err)

	return role
}

func createPermission(t *testing.T, svc authorization.Service, resource, action string) *domain.Permission {
	t.Helper()

	permission, err := svc.CreatePermission(context.Background(), authorization.PermissionInput{
		Resource: resource,
		Action:   action,
	})
	require.NoError(t, err)

	return permission
}

func TestCreateRole(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)

	role := createRole(t, svc, "editor")
	assert.Equal(t, "editor", role.Name)
	assert.True(t, role.IsActive)

	_, err := svc.CreateRole(context.Background(), authorization.RoleInput{Name: "editor"})
	require.ErrorIs(t, err, serrors.ErrConflict)

	_, err = svc.CreateRole(context.Background(), authorization.RoleInput{Name: ""})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestUpdateRole(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)
	editor := createRole(t, svc, "editor")
	createRole(t, svc, "viewer")

	name := "reviewer"
	updated, err := svc.UpdateRole(context.Background(), editor.ID, authorization.RoleUpdateInput{
		Name: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "reviewer", updated.Name)

	// renaming onto an existing role conflicts
	taken := "viewer"
	_, err = svc.UpdateRole(context.Background(), editor.ID, authorization.RoleUpdateInput{Name: &taken})
	require.ErrorIs(t, err, serrors.ErrConflict)

	// keeping the same name is not a conflict
	same := "reviewer"
	_, err = svc.UpdateRole(context.Background(), editor.ID, authorization.RoleUpdateInput{Name: &same})
	require.NoError(t, err)

	_, err = svc.UpdateRole(context.Background(), domain.RoleID(uuid.New()), authorization.RoleUpdateInput{})
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestDeleteRole(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)
	role := createRole(t, svc, "editor")

	require.NoError(t, svc.DeleteRole(context.Background(), role.ID))

	_, err := svc.Role(context.Background(), role.ID)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	err = svc.DeleteRole(context.Background(), role.ID)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestCreatePermission(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)

	permission := createPermission(t, svc, "articles", "write")
	assert.Equal(t, "articles", permission.Resource)
	assert.Equal(t, "write", permission.Action)

	_, err := svc.CreatePermission(context.Background(), authorization.PermissionInput{
		Resource: "articles", Action: "write",
	})
	require.ErrorIs(t, err, serrors.ErrConflict)

	// same resource, different action is fine
	createPermission(t, svc, "articles", "read")

	_, err = svc.CreatePermission(context.Background(), authorization.PermissionInput{
		Resource: "articles", Action: "",
	})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestUpdatePermission(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)
	write := createPermission(t, svc, "articles", "write")
	createPermission(t, svc, "articles", "read")

	action := "publish"
	updated, err := svc.UpdatePermission(context.Background(), write.ID,
		authorization.PermissionUpdateInput{Action: &action})
	require.NoError(t, err)
	assert.Equal(t, "publish", updated.Action)

	// moving onto an existing pair conflicts
	taken := "read"
	_, err = svc.UpdatePermission(context.Background(), write.ID,
		authorization.PermissionUpdateInput{Action: &taken})
	require.ErrorIs(t, err, serrors.ErrConflict)
}

func TestSyncRolePermissions(t *testing.T) {
	t.Parallel()

	_, svc := newTestService(t)
	ctx := context.Background()

	role := createRole(t, svc, "editor")
	read := createPermission(t, svc, "articles", "read")
	write := createPermission(t, svc, "articles", "write")
	del := createPermission(t, svc, "articles", "delete")

	err := svc.SyncRolePermissions(ctx, role.ID, []domain.PermissionID{read.ID, write.ID})
	require.NoError(t, err)

	attached, err := svc.RolePermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, attached, 2)

	// sync to a different set attaches and detaches the delta
	err = svc.SyncRolePermissions(ctx, role.ID, []domain.PermissionID{write.ID, del.ID})
	require.NoError(t, err)

	attached, err = svc.RolePermissions(ctx, role.ID)
	require.NoError(t, err)
	require.Len(t, attached, 2)
	ids := []domain.PermissionID{attached[0].ID, attached[1].ID}
	assert.Contains(t, ids, write.ID)
	assert.Contains(t, ids, del.ID)

	// unknown member rejects the whole sync
	err = svc.SyncRolePermissions(ctx, role.ID,
		[]domain.PermissionID{write.ID, domain.PermissionID(uuid.New())})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	// unknown role
	err = svc.SyncRolePermissions(ctx, domain.RoleID(uuid.New()), nil)
	require.ErrorIs(t, err, serrors.ErrNotFound)

	// empty set detaches everything
	require.NoError(t, svc.SyncRolePermissions(ctx, role.ID, nil))
	attached, err = svc.RolePermissions(ctx, role.ID)
	require.NoError(t, err)
	assert.Empty(t, attached)
}

func TestSyncUserRoles(t *testing.T) {
	t.Parallel()

	st, svc := newTestService(t)
	ctx := context.Background()

	user := storeUser(t, st, "alice")
	editor := createRole(t, svc, "editor")
	viewer := createRole(t, svc, "viewer")

	err := svc.SyncUserRoles(ctx, user.ID, []domain.RoleID{editor.ID})
	require.NoError(t, err)

	roles, err := svc.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, editor.ID, roles[0].ID)

	err = svc.SyncUserRoles(ctx, user.ID, []domain.RoleID{viewer.ID})
	require.NoError(t, err)

	roles, err = svc.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, viewer.ID, roles[0].ID)

	err = svc.SyncUserRoles(ctx, user.ID, []domain.RoleID{domain.RoleID(uuid.New())})
	require.ErrorIs(t, err, serrors.ErrBadRequest)

	err = svc.SyncUserRoles(ctx, domain.UserID(uuid.New()), nil)
	require.ErrorIs(t, err, serrors.ErrNotFound)
}

func TestUserPermissions(t *testing.T) {
	t.Parallel()

	st, svc := newTestService(t)
	ctx := context.Background()

	user := storeUser(t, st, "alice")
	editor := createRole(t, svc, "editor")
	read := createPermission(t, svc, "articles", "read")
	write := createPermission(t, svc, "articles", "write")

	require.NoError(t, svc.SyncRolePermissions(ctx, editor.ID, []domain.PermissionID{read.ID, write.ID}))
	require.NoError(t, svc.SyncUserRoles(ctx, user.ID, []domain.RoleID{editor.ID}))

	permissions, err := svc.UserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, permissions, 2)

	// deactivating the role revokes its permissions
	inactive := false
	_, err = svc.UpdateRole(ctx, editor.ID, authorization.RoleUpdateInput{IsActive: &inactive})
	require.NoError(t, err)

	permissions, err = svc.UserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, permissions)
}

func TestAssignDefaultRoles(t *testing.T) {
	t.Parallel()

	st, svc := newTestService(t)
	ctx := context.Background()

	user := storeUser(t, st, "alice")

	// without the default role the assignment is skipped, not failed
	require.NoError(t, svc.AssignDefaultRoles(ctx, user.ID))
	roles, err := svc.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	defaultRole := createRole(t, svc, authorization.DefaultRoleName)

	require.NoError(t, svc.AssignDefaultRoles(ctx, user.ID))
	// assigning twice stays idempotent
	require.NoError(t, svc.AssignDefaultRoles(ctx, user.ID))

	roles, err = svc.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, defaultRole.ID, roles[0].ID)
}

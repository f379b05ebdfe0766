package postgres_test

import (
	"context"
	"testing"

	"modulith/pkg/domain"
	"modulith/pkg/storage"
	"modulith/pkg/storage/postgres"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeTestRole(t *testing.T, pg *postgres.PgSQL, name string) domain.Role {
	t.Helper()

	roles, err := pg.StoreRoles(context.Background(), domain.Role{Name: name, IsActive: true})
	require.NoError(t, err)
	require.Len(t, roles, 1)

	return roles[0]
}

func storeTestPermission(t *testing.T, pg *postgres.PgSQL, resource, action string) domain.Permission {
	t.Helper()

	permissions, err := pg.StorePermissions(context.Background(),
		domain.Permission{Resource: resource, Action: action})
	require.NoError(t, err)
	require.Len(t, permissions, 1)

	return permissions[0]
}

func TestPgSQL_Roles_CRUD(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	editor := storeTestRole(t, pg, "editor")
	viewer := storeTestRole(t, pg, "viewer")

	byID, err := pg.RoleByID(ctx, editor.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "editor", byID.Name)

	byNames, err := pg.RolesByNames(ctx, []string{"editor", "viewer", "missing"})
	require.NoError(t, err)
	assert.Len(t, byNames, 2)

	byIDs, err := pg.RolesByIDs(ctx, []domain.RoleID{editor.ID, viewer.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	all, err := pg.Roles(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// ordered by name
	assert.Equal(t, "editor", all[0].Name)
	assert.Equal(t, "viewer", all[1].Name)

	inactive := false
	updated, err := pg.UpdateRoleByID(ctx, editor.ID, storage.RoleUpdates{IsActive: &inactive})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.False(t, updated.IsActive)

	deleted, err := pg.DeleteRole(ctx, viewer.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	missing, err := pg.RoleByID(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	again, err := pg.DeleteRole(ctx, viewer.ID)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestPgSQL_Permissions_CRUD(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	read := storeTestPermission(t, pg, "articles", "read")
	write := storeTestPermission(t, pg, "articles", "write")

	byID, err := pg.PermissionByID(ctx, read.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)

	byPair, err := pg.PermissionByResourceAction(ctx, "articles", "write")
	require.NoError(t, err)
	require.NotNil(t, byPair)
	assert.Equal(t, write.ID, byPair.ID)

	missingPair, err := pg.PermissionByResourceAction(ctx, "articles", "delete")
	require.NoError(t, err)
	assert.Nil(t, missingPair)

	byIDs, err := pg.PermissionsByIDs(ctx, []domain.PermissionID{read.ID, write.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	all, err := pg.Permissions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	action := "publish"
	updated, err := pg.UpdatePermissionByID(ctx, write.ID, storage.PermissionUpdates{Action: &action})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "publish", updated.Action)

	deleted, err := pg.DeletePermission(ctx, read.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)

	gone, err := pg.PermissionByID(ctx, read.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestPgSQL_UserRoles_Assignments(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := storeTestUser(t, pg, "alice")
	editor := storeTestRole(t, pg, "editor")
	viewer := storeTestRole(t, pg, "viewer")

	require.NoError(t, pg.AddUserRoles(ctx, user.ID, []domain.RoleID{editor.ID, viewer.ID}))
	// re-adding the same assignment is a no-op
	require.NoError(t, pg.AddUserRoles(ctx, user.ID, []domain.RoleID{editor.ID}))

	assignments, err := pg.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	require.NoError(t, pg.RemoveUserRoles(ctx, user.ID, []domain.RoleID{viewer.ID}))

	assignments, err = pg.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, editor.ID, assignments[0].RoleID)

	// deleting a role cascades into its assignments
	_, err = pg.DeleteRole(ctx, editor.ID)
	require.NoError(t, err)

	assignments, err = pg.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestPgSQL_RolePermissions_Attachments(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	editor := storeTestRole(t, pg, "editor")
	read := storeTestPermission(t, pg, "articles", "read")
	write := storeTestPermission(t, pg, "articles", "write")

	require.NoError(t, pg.AddRolePermissions(ctx, editor.ID,
		[]domain.PermissionID{read.ID, write.ID}))
	require.NoError(t, pg.AddRolePermissions(ctx, editor.ID, []domain.PermissionID{read.ID}))

	attachments, err := pg.RolePermissions(ctx, editor.ID)
	require.NoError(t, err)
	assert.Len(t, attachments, 2)

	require.NoError(t, pg.RemoveRolePermissions(ctx, editor.ID, []domain.PermissionID{write.ID}))

	attachments, err = pg.RolePermissions(ctx, editor.ID)
	require.NoError(t, err)
	require.Len(t, attachments, 1)
	assert.Equal(t, read.ID, attachments[0].PermissionID)
}

func TestPgSQL_UserPermissions(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := storeTestUser(t, pg, "alice")
	editor := storeTestRole(t, pg, "editor")
	viewer := storeTestRole(t, pg, "viewer")
	read := storeTestPermission(t, pg, "articles", "read")
	write := storeTestPermission(t, pg, "articles", "write")

	// read is reachable through both roles; the result must stay distinct
	require.NoError(t, pg.AddRolePermissions(ctx, editor.ID,
		[]domain.PermissionID{read.ID, write.ID}))
	require.NoError(t, pg.AddRolePermissions(ctx, viewer.ID, []domain.PermissionID{read.ID}))
	require.NoError(t, pg.AddUserRoles(ctx, user.ID, []domain.RoleID{editor.ID, viewer.ID}))

	permissions, err := pg.UserPermissions(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, permissions, 2)

	// deactivated roles stop granting their permissions
	inactive := false
	_, err = pg.UpdateRoleByID(ctx, editor.ID, storage.RoleUpdates{IsActive: &inactive})
	require.NoError(t, err)

	permissions, err = pg.UserPermissions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, permissions, 1)
	assert.Equal(t, read.ID, permissions[0].ID)

	none, err := pg.UserPermissions(ctx, domain.UserID(uuid.New()))
	require.NoError(t, err)
	assert.Empty(t, none)
}

package postgres

import (
	"context"
	"fmt"

	"modulith/pkg/domain"
	"modulith/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	permissionsTable     = "permissions"
	rolePermissionsTable = "role_permissions"
)

func (p *PgSQL) StorePermissions(ctx context.Context,
	permissions ...domain.Permission) ([]domain.Permission, error) {
	if len(permissions) == 0 {
		return nil, nil
	}

	var result []PgPermission
	if err := p.Builder.Insert(permissionsTable).
		Rows(domainPermissionsToPg(permissions)).
		Returning(&PgPermission{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store permissions into pg: %w", err)
	}

	return pgPermissionsToDomain(result), nil
}

func (p *PgSQL) PermissionByID(ctx context.Context, id domain.PermissionID) (*domain.Permission, error) {
	var row PgPermission
	found, err := p.Builder.From(permissionsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch permission by id: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) PermissionsByIDs(ctx context.Context,
	ids []domain.PermissionID) ([]domain.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, uuid.UUID(id))
	}

	var rows []PgPermission
	if err := p.Builder.From(permissionsTable).
		Where(goqu.I("id").In(raw)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch permissions by ids: %w", err)
	}

	return pgPermissionsToDomain(rows), nil
}

func (p *PgSQL) PermissionByResourceAction(ctx context.Context,
	resource, action string) (*domain.Permission, error) {
	var row PgPermission
	found, err := p.Builder.From(permissionsTable).
		Where(
			goqu.I("resource").Eq(resource),
			goqu.I("action").Eq(action),
		).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch permission by resource/action: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) Permissions(ctx context.Context) ([]domain.Permission, error) {
	var rows []PgPermission
	if err := p.Builder.From(permissionsTable).
		Order(goqu.I("resource").Asc(), goqu.I("action").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch permissions: %w", err)
	}

	return pgPermissionsToDomain(rows), nil
}

func (p *PgSQL) UpdatePermissionByID(ctx context.Context,
	id domain.PermissionID,
	updates storage.PermissionUpdates) (*domain.Permission, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Resource != nil {
		rec["resource"] = *updates.Resource
	}
	if updates.Action != nil {
		rec["action"] = *updates.Action
	}
	if updates.Description != nil {
		if *updates.Description == "" {
			rec["description"] = goqu.L("NULL")
		} else {
			rec["description"] = *updates.Description
		}
	}

	var row PgPermission
	found, err := p.Builder.Update(permissionsTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgPermission{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update permission in pg: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) DeletePermission(ctx context.Context, id domain.PermissionID) (*domain.Permission, error) {
	var row PgPermission
	found, err := p.Builder.Delete(permissionsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgPermission{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete permission in pg: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) RolePermissions(ctx context.Context,
	roleID domain.RoleID) ([]domain.RolePermission, error) {
	var rows []PgRolePermission
	if err := p.Builder.From(rolePermissionsTable).
		Where(goqu.I("role_id").Eq(uuid.UUID(roleID))).
		Order(goqu.I("created_at").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch role permissions: %w", err)
	}

	out := make([]domain.RolePermission, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) AddRolePermissions(ctx context.Context,
	roleID domain.RoleID,
	permissionIDs []domain.PermissionID) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	rows := make([]PgRolePermission, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		rows = append(rows, PgRolePermission{
			RoleID:       uuid.UUID(roleID),
			PermissionID: uuid.UUID(permissionID),
		})
	}

	// ON CONFLICT DO NOTHING keeps the operation idempotent
	if _, err := p.Builder.Insert(rolePermissionsTable).
		Rows(rows).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not add role permissions: %w", err)
	}

	return nil
}

func (p *PgSQL) RemoveRolePermissions(ctx context.Context,
	roleID domain.RoleID,
	permissionIDs []domain.PermissionID) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		ids = append(ids, uuid.UUID(permissionID))
	}

	if _, err := p.Builder.Delete(rolePermissionsTable).
		Where(
			goqu.I("role_id").Eq(uuid.UUID(roleID)),
			goqu.I("permission_id").In(ids),
		).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not remove role permissions: %w", err)
	}

	return nil
}

// UserPermissions returns the distinct permissions a user holds through
// active roles, joining user_roles -> roles -> role_permissions.
func (p *PgSQL) UserPermissions(ctx context.Context, userID domain.UserID) ([]domain.Permission, error) {
	ds := p.Builder.From(goqu.T(permissionsTable).As("p")).
		Select("p.id", "p.resource", "p.action", "p.description", "p.created_at", "p.updated_at").
		Distinct().
		Join(
			goqu.T(rolePermissionsTable).As("rp"),
			goqu.On(goqu.Ex{"rp.permission_id": goqu.I("p.id")}),
		).
		Join(
			goqu.T(rolesTable).As("r"),
			goqu.On(goqu.Ex{"r.id": goqu.I("rp.role_id")}),
		).
		Join(
			goqu.T(userRolesTable).As("ur"),
			goqu.On(goqu.Ex{"ur.role_id": goqu.I("r.id")}),
		).
		Where(
			goqu.I("ur.user_id").Eq(uuid.UUID(userID)),
			goqu.I("r.is_active").IsTrue(),
		).
		Order(goqu.I("p.resource").Asc(), goqu.I("p.action").Asc())

	var rows []PgPermission
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user permissions: %w", err)
	}

	return pgPermissionsToDomain(rows), nil
}

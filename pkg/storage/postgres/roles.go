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
	rolesTable     = "roles"
	userRolesTable = "user_roles"
)

func (p *PgSQL) StoreRoles(ctx context.Context, roles ...domain.Role) ([]domain.Role, error) {
	if len(roles) == 0 {
		return nil, nil
	}

	var result []PgRole
	if err := p.Builder.Insert(rolesTable).
		Rows(domainRolesToPg(roles)).
		Returning(&PgRole{}).
		Executor().ScanStructsContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store roles into pg: %w", err)
	}

	return pgRolesToDomain(result), nil
}

func (p *PgSQL) RoleByID(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	var row PgRole
	found, err := p.Builder.From(rolesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not fetch role by id: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) RolesByNames(ctx context.Context, names []string) ([]domain.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var rows []PgRole
	if err := p.Builder.From(rolesTable).
		Where(goqu.I("name").In(names)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch roles by names: %w", err)
	}

	return pgRolesToDomain(rows), nil
}

func (p *PgSQL) RolesByIDs(ctx context.Context, ids []domain.RoleID) ([]domain.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, uuid.UUID(id))
	}

	var rows []PgRole
	if err := p.Builder.From(rolesTable).
		Where(goqu.I("id").In(raw)).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch roles by ids: %w", err)
	}

	return pgRolesToDomain(rows), nil
}

func (p *PgSQL) Roles(ctx context.Context) ([]domain.Role, error) {
	var rows []PgRole
	if err := p.Builder.From(rolesTable).
		Order(goqu.I("name").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch roles: %w", err)
	}

	return pgRolesToDomain(rows), nil
}

func (p *PgSQL) UpdateRoleByID(ctx context.Context,
	id domain.RoleID,
	updates storage.RoleUpdates) (*domain.Role, error) {
	rec := goqu.Record{
		"updated_at": goqu.L("CURRENT_TIMESTAMP"),
	}
	if updates.Name != nil {
		rec["name"] = *updates.Name
	}
	if updates.Description != nil {
		if *updates.Description == "" {
			rec["description"] = goqu.L("NULL")
		} else {
			rec["description"] = *updates.Description
		}
	}
	if updates.IsActive != nil {
		rec["is_active"] = *updates.IsActive
	}

	var row PgRole
	found, err := p.Builder.Update(rolesTable).
		Set(rec).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgRole{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update role in pg: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

// DeleteRole removes the role. user_roles and role_permissions rows cascade
// via foreign keys.
func (p *PgSQL) DeleteRole(ctx context.Context, id domain.RoleID) (*domain.Role, error) {
	var row PgRole
	found, err := p.Builder.Delete(rolesTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgRole{}).Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not delete role in pg: %w", err)
	}
	if !found {
		return nil, nil //nolint: nilnil
	}

	return row.ToDomain(), nil
}

func (p *PgSQL) UserRoles(ctx context.Context, userID domain.UserID) ([]domain.UserRole, error) {
	var rows []PgUserRole
	if err := p.Builder.From(userRolesTable).
		Where(goqu.I("user_id").Eq(uuid.UUID(userID))).
		Order(goqu.I("created_at").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, fmt.Errorf("could not fetch user roles: %w", err)
	}

	out := make([]domain.UserRole, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}

	return out, nil
}

func (p *PgSQL) AddUserRoles(ctx context.Context, userID domain.UserID, roleIDs []domain.RoleID) error {
	if len(roleIDs) == 0 {
		return nil
	}

	rows := make([]PgUserRole, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		rows = append(rows, PgUserRole{
			UserID: uuid.UUID(userID),
			RoleID: uuid.UUID(roleID),
		})
	}

	// ON CONFLICT DO NOTHING keeps the operation idempotent
	if _, err := p.Builder.Insert(userRolesTable).
		Rows(rows).
		OnConflict(goqu.DoNothing()).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not add user roles: %w", err)
	}

	return nil
}

func (p *PgSQL) RemoveUserRoles(ctx context.Context, userID domain.UserID, roleIDs []domain.RoleID) error {
	if len(roleIDs) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		ids = append(ids, uuid.UUID(roleID))
	}

	if _, err := p.Builder.Delete(userRolesTable).
		Where(
			goqu.I("user_id").Eq(uuid.UUID(userID)),
			goqu.I("role_id").In(ids),
		).
		Executor().ExecContext(ctx); err != nil {
		return fmt.Errorf("could not remove user roles: %w", err)
	}

	return nil
}

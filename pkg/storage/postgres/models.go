package postgres

import (
	"database/sql"
	"time"

	"modulith/pkg/domain"

	"github.com/google/uuid"
)

type PgUser struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
	DeletedAt sql.NullTime `db:"deleted_at" goqu:"skipinsert"`
}

func (p *PgUser) ToDomain() *domain.User {
	return &domain.User{
		ID:           domain.UserID(p.ID),
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt.Time,
		DeletedAt:    p.DeletedAt.Time,
	}
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:           uuid.UUID(user.ID),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  user.UpdatedAt,
			Valid: !user.UpdatedAt.IsZero(),
		},
		DeletedAt: sql.NullTime{
			Time:  user.DeletedAt,
			Valid: !user.DeletedAt.IsZero(),
		},
	}
}

type PgRole struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`
	IsActive    bool           `db:"is_active"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgRole) ToDomain() *domain.Role {
	return &domain.Role{
		ID:          domain.RoleID(p.ID),
		Name:        p.Name,
		Description: p.Description.String,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (p *PgRole) FromDomain(role domain.Role) {
	*p = PgRole{
		ID:   uuid.UUID(role.ID),
		Name: role.Name,
		Description: sql.NullString{
			String: role.Description,
			Valid:  role.Description != "",
		},
		IsActive:  role.IsActive,
		CreatedAt: role.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  role.UpdatedAt,
			Valid: !role.UpdatedAt.IsZero(),
		},
	}
}

type PgPermission struct {
	ID uuid.UUID `db:"id" goqu:"skipinsert"`

	Resource    string         `db:"resource"`
	Action      string         `db:"action"`
	Description sql.NullString `db:"description"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgPermission) ToDomain() *domain.Permission {
	return &domain.Permission{
		ID:          domain.PermissionID(p.ID),
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description.String,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

func (p *PgPermission) FromDomain(permission domain.Permission) {
	*p = PgPermission{
		ID:       uuid.UUID(permission.ID),
		Resource: permission.Resource,
		Action:   permission.Action,
		Description: sql.NullString{
			String: permission.Description,
			Valid:  permission.Description != "",
		},
		CreatedAt: permission.CreatedAt,
		UpdatedAt: sql.NullTime{
			Time:  permission.UpdatedAt,
			Valid: !permission.UpdatedAt.IsZero(),
		},
	}
}

type PgUserRole struct {
	UserID    uuid.UUID `db:"user_id"`
	RoleID    uuid.UUID `db:"role_id"`
	CreatedAt time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgUserRole) ToDomain() domain.UserRole {
	return domain.UserRole{
		UserID:    domain.UserID(p.UserID),
		RoleID:    domain.RoleID(p.RoleID),
		CreatedAt: p.CreatedAt,
	}
}

type PgRolePermission struct {
	RoleID       uuid.UUID `db:"role_id"`
	PermissionID uuid.UUID `db:"permission_id"`
	CreatedAt    time.Time `db:"created_at" goqu:"skipinsert"`
}

func (p *PgRolePermission) ToDomain() domain.RolePermission {
	return domain.RolePermission{
		RoleID:       domain.RoleID(p.RoleID),
		PermissionID: domain.PermissionID(p.PermissionID),
		CreatedAt:    p.CreatedAt,
	}
}

func domainRolesToPg(roles []domain.Role) []PgRole {
	out := make([]PgRole, len(roles))
	for i := range out {
		out[i].FromDomain(roles[i])
	}

	return out
}

func pgRolesToDomain(roles []PgRole) []domain.Role {
	out := make([]domain.Role, 0, len(roles))
	for i := range roles {
		out = append(out, *roles[i].ToDomain())
	}

	return out
}

func domainPermissionsToPg(permissions []domain.Permission) []PgPermission {
	out := make([]PgPermission, len(permissions))
	for i := range out {
		out[i].FromDomain(permissions[i])
	}

	return out
}

func pgPermissionsToDomain(permissions []PgPermission) []domain.Permission {
	out := make([]domain.Permission, 0, len(permissions))
	for i := range permissions {
		out = append(out, *permissions[i].ToDomain())
	}

	return out
}

// Package memory implements the storage interfaces with in-process maps.
// It backs service-level tests and local experiments that don't need a real
// database. Transactions are pass-through: Begin returns a handle sharing
// the same state, and Rollback does not undo changes.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"modulith/pkg/domain"
	"modulith/pkg/storage"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// Memory is an in-process implementation of storage.Storage.
type Memory struct {
	mu sync.Mutex

	users           map[domain.UserID]domain.User
	roles           map[domain.RoleID]domain.Role
	permissions     map[domain.PermissionID]domain.Permission
	userRoles       []domain.UserRole
	rolePermissions []domain.RolePermission

	// Jobs records every enqueued job for assertions in tests.
	Jobs []river.JobArgs
}

// New creates an empty in-memory storage.
func New() *Memory {
	return &Memory{
		users:       make(map[domain.UserID]domain.User),
		roles:       make(map[domain.RoleID]domain.Role),
		permissions: make(map[domain.PermissionID]domain.Permission),
	}
}

var (
	_ storage.Storage   = (*Memory)(nil)
	_ storage.TxStorage = (*Memory)(nil)
)

// Close implements storage.Storage.
func (m *Memory) Close() error { return nil }

// Begin returns the same handle; the memory backend has no isolation.
func (m *Memory) Begin(_ context.Context) (storage.TxStorage, error) { return m, nil }

// Commit implements storage.TxStorage as a no-op.
func (m *Memory) Commit() error { return nil }

// Rollback implements storage.TxStorage. Changes are not undone.
func (m *Memory) Rollback() error { return nil }

// WithTx runs cb against the same handle.
func (m *Memory) WithTx(_ context.Context, cb func(storage storage.AllStorage) error) error {
	return cb(m)
}

// AddJob records the job args and reports it as inserted.
func (m *Memory) AddJob(_ context.Context, args river.JobArgs, _ *river.InsertOpts) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Jobs = append(m.Jobs, args)

	return true, nil
}

func (m *Memory) StoreUser(_ context.Context, user domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = domain.UserID(uuid.New())
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	m.users[user.ID] = user

	return &user, nil
}

func (m *Memory) UserByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok || !user.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	return &user, nil
}

func (m *Memory) UserByLogin(_ context.Context, login string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if !user.DeletedAt.IsZero() {
			continue
		}
		if user.Username == login || user.Email == login {
			return &user, nil
		}
	}

	return nil, nil //nolint: nilnil
}

func (m *Memory) UsernameOrEmailTaken(_ context.Context,
	username, email string,
	exclude domain.UserID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if !user.DeletedAt.IsZero() || user.ID == exclude {
			continue
		}
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}

	return false, nil
}

func (m *Memory) Users(_ context.Context, cursor time.Time, limit uint) (storage.UserPage, error) {
	if limit == 0 {
		return storage.UserPage{}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var users []domain.User
	for _, user := range m.users {
		if !user.DeletedAt.IsZero() {
			continue
		}
		if !cursor.IsZero() && !user.CreatedAt.Before(cursor) {
			continue
		}
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	var nextCursor *time.Time
	if uint(len(users)) > limit {
		users = users[:limit]
		nextCursor = &users[len(users)-1].CreatedAt
	}

	return storage.UserPage{Users: users, NextCursor: nextCursor}, nil
}

func (m *Memory) UpdateUserByID(_ context.Context,
	id domain.UserID,
	updates storage.UserUpdates) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok || !user.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	if updates.Username != nil {
		user.Username = *updates.Username
	}
	if updates.Email != nil {
		user.Email = *updates.Email
	}
	if updates.PasswordHash != nil {
		user.PasswordHash = *updates.PasswordHash
	}
	user.UpdatedAt = time.Now().UTC()
	m.users[id] = user

	return &user, nil
}

func (m *Memory) DeleteUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok || !user.DeletedAt.IsZero() {
		return nil, nil //nolint: nilnil
	}

	user.DeletedAt = time.Now().UTC()
	m.users[id] = user

	return &user, nil
}

func (m *Memory) StoreRoles(_ context.Context, roles ...domain.Role) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		if role.ID == (domain.RoleID{}) {
			role.ID = domain.RoleID(uuid.New())
		}
		if role.CreatedAt.IsZero() {
			role.CreatedAt = time.Now().UTC()
		}
		m.roles[role.ID] = role
		out = append(out, role)
	}

	return out, nil
}

func (m *Memory) RoleByID(_ context.Context, id domain.RoleID) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.roles[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	return &role, nil
}

func (m *Memory) RolesByNames(_ context.Context, names []string) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var out []domain.Role
	for _, role := range m.roles {
		if wanted[role.Name] {
			out = append(out, role)
		}
	}

	return out, nil
}

func (m *Memory) RolesByIDs(_ context.Context, ids []domain.RoleID) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Role
	for _, id := range ids {
		if role, ok := m.roles[id]; ok {
			out = append(out, role)
		}
	}

	return out, nil
}

func (m *Memory) Roles(_ context.Context) ([]domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		out = append(out, role)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (m *Memory) UpdateRoleByID(_ context.Context,
	id domain.RoleID,
	updates storage.RoleUpdates) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.roles[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	if updates.Name != nil {
		role.Name = *updates.Name
	}
	if updates.Description != nil {
		role.Description = *updates.Description
	}
	if updates.IsActive != nil {
		role.IsActive = *updates.IsActive
	}
	role.UpdatedAt = time.Now().UTC()
	m.roles[id] = role

	return &role, nil
}

func (m *Memory) DeleteRole(_ context.Context, id domain.RoleID) (*domain.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	role, ok := m.roles[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	delete(m.roles, id)

	kept := m.userRoles[:0]
	for _, ur := range m.userRoles {
		if ur.RoleID != id {
			kept = append(kept, ur)
		}
	}
	m.userRoles = kept

	keptRP := m.rolePermissions[:0]
	for _, rp := range m.rolePermissions {
		if rp.RoleID != id {
			keptRP = append(keptRP, rp)
		}
	}
	m.rolePermissions = keptRP

	return &role, nil
}

func (m *Memory) UserRoles(_ context.Context, userID domain.UserID) ([]domain.UserRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.UserRole
	for _, ur := range m.userRoles {
		if ur.UserID == userID {
			out = append(out, ur)
		}
	}

	return out, nil
}

func (m *Memory) AddUserRoles(_ context.Context, userID domain.UserID, roleIDs []domain.RoleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, roleID := range roleIDs {
		exists := false
		for _, ur := range m.userRoles {
			if ur.UserID == userID && ur.RoleID == roleID {
				exists = true

				break
			}
		}
		if !exists {
			m.userRoles = append(m.userRoles, domain.UserRole{
				UserID:    userID,
				RoleID:    roleID,
				CreatedAt: time.Now().UTC(),
			})
		}
	}

	return nil
}

func (m *Memory) RemoveUserRoles(_ context.Context, userID domain.UserID, roleIDs []domain.RoleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	remove := make(map[domain.RoleID]bool, len(roleIDs))
	for _, roleID := range roleIDs {
		remove[roleID] = true
	}

	kept := m.userRoles[:0]
	for _, ur := range m.userRoles {
		if ur.UserID == userID && remove[ur.RoleID] {
			continue
		}
		kept = append(kept, ur)
	}
	m.userRoles = kept

	return nil
}

func (m *Memory) StorePermissions(_ context.Context,
	permissions ...domain.Permission) ([]domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Permission, 0, len(permissions))
	for _, permission := range permissions {
		if permission.ID == (domain.PermissionID{}) {
			permission.ID = domain.PermissionID(uuid.New())
		}
		if permission.CreatedAt.IsZero() {
			permission.CreatedAt = time.Now().UTC()
		}
		m.permissions[permission.ID] = permission
		out = append(out, permission)
	}

	return out, nil
}

func (m *Memory) PermissionByID(_ context.Context,
	id domain.PermissionID) (*domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	permission, ok := m.permissions[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	return &permission, nil
}

func (m *Memory) PermissionsByIDs(_ context.Context,
	ids []domain.PermissionID) ([]domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Permission
	for _, id := range ids {
		if permission, ok := m.permissions[id]; ok {
			out = append(out, permission)
		}
	}

	return out, nil
}

func (m *Memory) PermissionByResourceAction(_ context.Context,
	resource, action string) (*domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, permission := range m.permissions {
		if permission.Resource == resource && permission.Action == action {
			return &permission, nil
		}
	}

	return nil, nil //nolint: nilnil
}

func (m *Memory) Permissions(_ context.Context) ([]domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		out = append(out, permission)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}

		return out[i].Action < out[j].Action
	})

	return out, nil
}

func (m *Memory) UpdatePermissionByID(_ context.Context,
	id domain.PermissionID,
	updates storage.PermissionUpdates) (*domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	permission, ok := m.permissions[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	if updates.Resource != nil {
		permission.Resource = *updates.Resource
	}
	if updates.Action != nil {
		permission.Action = *updates.Action
	}
	if updates.Description != nil {
		permission.Description = *updates.Description
	}
	permission.UpdatedAt = time.Now().UTC()
	m.permissions[id] = permission

	return &permission, nil
}

func (m *Memory) DeletePermission(_ context.Context,
	id domain.PermissionID) (*domain.Permission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	permission, ok := m.permissions[id]
	if !ok {
		return nil, nil //nolint: nilnil
	}

	delete(m.permissions, id)

	kept := m.rolePermissions[:0]
	for _, rp := range m.rolePermissions {
		if rp.PermissionID != id {
			kept = append(kept, rp)
		}
	}
	m.rolePermissions = kept

	return &permission, nil
}

func (m *Memory) RolePermissions(_ context.Context,
	roleID domain.RoleID) ([]domain.RolePermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.RolePermission
	for _, rp := range m.rolePermissions {
		if rp.RoleID == roleID {
			out = append(out, rp)
		}
	}

	return out, nil
}

func (m *Memory) AddRolePermissions(_ context.Context,
	roleID domain.RoleID,
	permissionIDs []domain.PermissionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, permissionID := range permissionIDs {
		exists := false
		for _, rp := range m.rolePermissions {
			if rp.RoleID == roleID && rp.PermissionID == permissionID {
				exists = true

				break
			}
		}
		if !exists {
			m.rolePermissions = append(m.rolePermissions, domain.RolePermission{
				RoleID:       roleID,
				PermissionID: permissionID,
				CreatedAt:    time.Now().UTC(),
			})
		}
	}

	return nil
}

func (m *Memory) RemoveRolePermissions(_ context.Context,
	roleID domain.RoleID,
	permissionIDs []domain.PermissionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	remove := make(map[domain.PermissionID]bool, len(permissionIDs))
	for _, permissionID := range permissionIDs {
		remove[permissionID] = true
	}

	kept := m.rolePermissions[:0]
	for _, rp := range m.rolePermissions {
		if rp.RoleID == roleID && remove[rp.PermissionID] {
			continue
		}
		kept = append(kept, rp)
	}
	m.rolePermissions = kept

	return nil
}

func (m *Memory) UserPermissions(_ context.Context,
	userID domain.UserID) ([]domain.Permission, error) {
	m.mu.Lock()

	roleIDs := make(map[domain.RoleID]bool)
	for _, ur := range m.userRoles {
		if ur.UserID == userID {
			if role, ok := m.roles[ur.RoleID]; ok && role.IsActive {
				roleIDs[ur.RoleID] = true
			}
		}
	}

	seen := make(map[domain.PermissionID]bool)
	var out []domain.Permission
	for _, rp := range m.rolePermissions {
		if roleIDs[rp.RoleID] && !seen[rp.PermissionID] {
			if permission, ok := m.permissions[rp.PermissionID]; ok {
				seen[rp.PermissionID] = true
				out = append(out, permission)
			}
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Resource != out[j].Resource {
			return out[i].Resource < out[j].Resource
		}

		return out[i].Action < out[j].Action
	})

	return out, nil
}

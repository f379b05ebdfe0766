package authorization

import (
	"encoding/json"
	"net/http"
	"time"

	"modulith/pkg/auth"
	"modulith/pkg/controller"
	"modulith/pkg/domain"
	"modulith/pkg/serrors"
)

// Handler exposes the authorization service over HTTP.
type Handler struct {
	service Service
}

// NewHandler creates the HTTP handler for the authorization domain.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RoleResponse is the JSON shape of a role returned by the API.
type RoleResponse struct {
	ID          domain.RoleID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	IsActive    bool          `json:"isActive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}

// NewRoleResponse converts a domain role to its API shape.
func NewRoleResponse(role *domain.Role) RoleResponse {
	out := RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
	}
	if !role.UpdatedAt.IsZero() {
		out.UpdatedAt = &role.UpdatedAt
	}

	return out
}

// PermissionResponse is the JSON shape of a permission returned by the API.
type PermissionResponse struct {
	ID          domain.PermissionID `json:"id"`
	Resource    string              `json:"resource"`
	Action      string              `json:"action"`
	Description string              `json:"description,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   *time.Time          `json:"updatedAt,omitempty"`
}

// NewPermissionResponse converts a domain permission to its API shape.
func NewPermissionResponse(permission *domain.Permission) PermissionResponse {
	out := PermissionResponse{
		ID:          permission.ID,
		Resource:    permission.Resource,
		Action:      permission.Action,
		Description: permission.Description,
		CreatedAt:   permission.CreatedAt,
	}
	if !permission.UpdatedAt.IsZero() {
		out.UpdatedAt = &permission.UpdatedAt
	}

	return out
}

func newRoleList(roles []domain.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, NewRoleResponse(&roles[i]))
	}

	return out
}

func newPermissionList(permissions []domain.Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(permissions))
	for i := range permissions {
		out = append(out, NewPermissionResponse(&permissions[i]))
	}

	return out
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "invalid request body")
	}

	return nil
}

func roleIDFromPath(r *http.Request) (domain.RoleID, error) {
	id, err := domain.ParseRoleID(r.PathValue("id"))
	if err != nil {
		return domain.RoleID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid role id")
	}

	return id, nil
}

func permissionIDFromPath(r *http.Request) (domain.PermissionID, error) {
	id, err := domain.ParsePermissionID(r.PathValue("id"))
	if err != nil {
		return domain.PermissionID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid permission id")
	}

	return id, nil
}

func userIDFromPath(r *http.Request) (domain.UserID, error) {
	id, err := domain.ParseUserID(r.PathValue("id"))
	if err != nil {
		return domain.UserID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid user id")
	}

	return id, nil
}

type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// CreateRole handles POST /v1/roles.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req roleRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	// roles are active unless explicitly disabled
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	role, err := h.service.CreateRole(ctx, RoleInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    isActive,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusCreated, NewRoleResponse(role))
}

// GetRole handles GET /v1/roles/{id}.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := roleIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	role, err := h.service.Role(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewRoleResponse(role))
}

// ListRoles handles GET /v1/roles.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	roles, err := h.service.Roles(ctx)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newRoleList(roles))
}

type roleUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// UpdateRole handles PATCH /v1/roles/{id}.
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := roleIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	var req roleUpdateRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	role, err := h.service.UpdateRole(ctx, id, RoleUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewRoleResponse(role))
}

// DeleteRole handles DELETE /v1/roles/{id}.
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := roleIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	if err := h.service.DeleteRole(ctx, id); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusNoContent, nil)
}

type permissionRequest struct {
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// CreatePermission handles POST /v1/permissions.
func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req permissionRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permission, err := h.service.CreatePermission(ctx, PermissionInput{
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusCreated, NewPermissionResponse(permission))
}

// GetPermission handles GET /v1/permissions/{id}.
func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := permissionIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permission, err := h.service.Permission(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewPermissionResponse(permission))
}

// ListPermissions handles GET /v1/permissions.
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	permissions, err := h.service.Permissions(ctx)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newPermissionList(permissions))
}

type permissionUpdateRequest struct {
	Resource    *string `json:"resource"`
	Action      *string `json:"action"`
	Description *string `json:"description"`
}

// UpdatePermission handles PATCH /v1/permissions/{id}.
func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := permissionIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	var req permissionUpdateRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permission, err := h.service.UpdatePermission(ctx, id, PermissionUpdateInput{
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
	})
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, NewPermissionResponse(permission))
}

// DeletePermission handles DELETE /v1/permissions/{id}.
func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := permissionIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	if err := h.service.DeletePermission(ctx, id); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusNoContent, nil)
}

// GetRolePermissions handles GET /v1/roles/{id}/permissions.
func (h *Handler) GetRolePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := roleIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permissions, err := h.service.RolePermissions(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newPermissionList(permissions))
}

type syncPermissionsRequest struct {
	PermissionIDs []domain.PermissionID `json:"permissionIds"`
}

// SyncRolePermissions handles PUT /v1/roles/{id}/permissions.
func (h *Handler) SyncRolePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := roleIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	var req syncPermissionsRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	if err := h.service.SyncRolePermissions(ctx, id, req.PermissionIDs); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permissions, err := h.service.RolePermissions(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newPermissionList(permissions))
}

// GetUserRoles handles GET /v1/users/{id}/roles.
func (h *Handler) GetUserRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	roles, err := h.service.UserRoles(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newRoleList(roles))
}

type syncRolesRequest struct {
	RoleIDs []domain.RoleID `json:"roleIds"`
}

// SyncUserRoles handles PUT /v1/users/{id}/roles.
func (h *Handler) SyncUserRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	var req syncRolesRequest
	if err := decode(r, &req); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	if err := h.service.SyncUserRoles(ctx, id, req.RoleIDs); err != nil {
		controller.Error(ctx, w, err)

		return
	}

	roles, err := h.service.UserRoles(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newRoleList(roles))
}

// GetUserPermissions handles GET /v1/users/{id}/permissions.
func (h *Handler) GetUserPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := userIDFromPath(r)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	permissions, err := h.service.UserPermissions(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newPermissionList(permissions))
}

// GetMyPermissions handles GET /v1/users/me/permissions for the
// authenticated user.
func (h *Handler) GetMyPermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		controller.Error(ctx, w, serrors.With(serrors.ErrUnauthorized, "not authenticated"))

		return
	}

	permissions, err := h.service.UserPermissions(ctx, id)
	if err != nil {
		controller.Error(ctx, w, err)

		return
	}

	controller.JSON(ctx, w, http.StatusOK, newPermissionList(permissions))
}

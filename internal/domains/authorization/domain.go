package authorization

import (
	"context"
	"fmt"

	"modulith/internal/registry"
	"modulith/pkg/events"
	"modulith/pkg/events/contracts"
	"modulith/pkg/storage"
)

// Name is the identifier used in the installed-domains configuration.
const Name = "authorization"

// Domain packages the authorization service as an installable domain.
type Domain struct {
	service Service
	handler *Handler
}

// NewDomain wraps the service for registration.
func NewDomain(service Service) *Domain {
	return &Domain{
		service: service,
		handler: NewHandler(service),
	}
}

var _ registry.Domain = (*Domain)(nil)

// Name implements registry.Domain.
func (d *Domain) Name() string { return Name }

// MountRoutes implements registry.Domain. All authorization routes require a
// valid access token.
func (d *Domain) MountRoutes(router *registry.Router) {
	router.HandleFunc("POST /v1/roles", d.handler.CreateRole)
	router.HandleFunc("GET /v1/roles", d.handler.ListRoles)
	router.HandleFunc("GET /v1/roles/{id}", d.handler.GetRole)
	router.HandleFunc("PATCH /v1/roles/{id}", d.handler.UpdateRole)
	router.HandleFunc("DELETE /v1/roles/{id}", d.handler.DeleteRole)
	router.HandleFunc("GET /v1/roles/{id}/permissions", d.handler.GetRolePermissions)
	router.HandleFunc("PUT /v1/roles/{id}/permissions", d.handler.SyncRolePermissions)

	router.HandleFunc("POST /v1/permissions", d.handler.CreatePermission)
	router.HandleFunc("GET /v1/permissions", d.handler.ListPermissions)
	router.HandleFunc("GET /v1/permissions/{id}", d.handler.GetPermission)
	router.HandleFunc("PATCH /v1/permissions/{id}", d.handler.UpdatePermission)
	router.HandleFunc("DELETE /v1/permissions/{id}", d.handler.DeletePermission)

	router.HandleFunc("GET /v1/users/me/permissions", d.handler.GetMyPermissions)
	router.HandleFunc("GET /v1/users/{id}/roles", d.handler.GetUserRoles)
	router.HandleFunc("PUT /v1/users/{id}/roles", d.handler.SyncUserRoles)
	router.HandleFunc("GET /v1/users/{id}/permissions", d.handler.GetUserPermissions)
}

// RegisterEventHandlers implements registry.Domain. Authorization reacts to
// user announcements from the authentication domain.
func (d *Domain) RegisterEventHandlers(subscriber events.Subscriber) error {
	return subscriber.Subscribe(contracts.UserSavedName, d.onUserSaved) //nolint: wrapcheck
}

// onUserSaved assigns the default role to announced users. Assignment is
// idempotent, so repeated announcements for the same user are harmless.
func (d *Domain) onUserSaved(ctx context.Context, event events.Event) error {
	saved, ok := event.(contracts.UserSaved)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %q", event, contracts.UserSavedName)
	}

	return d.service.AssignDefaultRoles(ctx, saved.UserID)
}

// Seed implements registry.Domain.
func (d *Domain) Seed(ctx context.Context, store storage.Storage) error {
	return seed(ctx, store)
}

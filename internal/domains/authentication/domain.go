package authentication

import (
	"context"

	"modulith/internal/registry"
	"modulith/pkg/events"
	"modulith/pkg/storage"
)

// Name is the identifier used in the installed-domains configuration.
const Name = "authentication"

// Domain packages the authentication service as an installable domain.
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

// MountRoutes implements registry.Domain. Registration, login and refresh
// are public; user management requires a valid access token.
func (d *Domain) MountRoutes(router *registry.Router) {
	router.HandlePublicFunc("POST /v1/auth/register", d.handler.RegisterUser)
	router.HandlePublicFunc("POST /v1/auth/login", d.handler.Login)
	router.HandlePublicFunc("POST /v1/auth/refresh", d.handler.Refresh)

	router.HandleFunc("GET /v1/users/me", d.handler.Me)
	router.HandleFunc("GET /v1/users", d.handler.ListUsers)
	router.HandleFunc("GET /v1/users/{id}", d.handler.GetUser)
	router.HandleFunc("PATCH /v1/users/{id}", d.handler.UpdateUser)
	router.HandleFunc("DELETE /v1/users/{id}", d.handler.DeleteUser)
}

// RegisterEventHandlers implements registry.Domain. Authentication emits
// events but subscribes to none.
func (d *Domain) RegisterEventHandlers(_ events.Subscriber) error { return nil }

// Seed implements registry.Domain.
func (d *Domain) Seed(ctx context.Context, store storage.Storage) error {
	return seed(ctx, store)
}

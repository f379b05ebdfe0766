// Package registry wires installed domains into the application. Each domain
// packages its HTTP routes, event subscriptions and seed data behind the
// Domain interface, and the registry activates them in configured order.
package registry

import (
	"context"
	"fmt"

	"modulith/pkg/events"
	"modulith/pkg/storage"
)

// Domain is a self-contained application module. Implementations are
// registered under a unique name and activated when that name appears in the
// installed-domains configuration.
type Domain interface {
	// Name returns the unique identifier used in configuration.
	Name() string
	// MountRoutes registers the domain's HTTP routes.
	MountRoutes(router *Router)
	// RegisterEventHandlers subscribes the domain's handlers on the bus.
	RegisterEventHandlers(subscriber events.Subscriber) error
	// Seed inserts the domain's initial data. It must be idempotent.
	Seed(ctx context.Context, store storage.Storage) error
}

// Registry holds the activated domains in configuration order.
type Registry struct {
	domains []Domain
}

// New resolves the configured names against the available domains. Each name
// must match exactly one available domain and appear at most once; anything
// else is a startup error rather than a silent skip.
func New(names []string, available ...Domain) (*Registry, error) {
	byName := make(map[string]Domain, len(available))
	for _, domain := range available {
		if _, ok := byName[domain.Name()]; ok {
			return nil, fmt.Errorf("domain %q registered twice", domain.Name())
		}
		byName[domain.Name()] = domain
	}

	seen := make(map[string]bool, len(names))
	domains := make([]Domain, 0, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("domain %q listed twice in installed domains", name)
		}
		seen[name] = true

		domain, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown domain %q in installed domains", name)
		}
		domains = append(domains, domain)
	}

	return &Registry{domains: domains}, nil
}

// Domains returns the activated domains in configuration order.
func (r *Registry) Domains() []Domain {
	return r.domains
}

// MountRoutes mounts every activated domain's routes in order.
func (r *Registry) MountRoutes(router *Router) {
	for _, domain := range r.domains {
		domain.MountRoutes(router)
	}
}

// RegisterEventHandlers subscribes every activated domain's handlers in
// order. Subscription order determines dispatch order on the bus.
func (r *Registry) RegisterEventHandlers(subscriber events.Subscriber) error {
	for _, domain := range r.domains {
		if err := domain.RegisterEventHandlers(subscriber); err != nil {
			return fmt.Errorf("could not register event handlers for domain %q: %w", domain.Name(), err)
		}
	}

	return nil
}

// Seed runs every activated domain's seeder in order.
func (r *Registry) Seed(ctx context.Context, store storage.Storage) error {
	for _, domain := range r.domains {
		if err := domain.Seed(ctx, store); err != nil {
			return fmt.Errorf("could not seed domain %q: %w", domain.Name(), err)
		}
	}

	return nil
}

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrFrozen is returned by Subscribe once the bus has been frozen. The
// registration table is populated during startup and read-only afterwards.
var ErrFrozen = errors.New("event bus is frozen")

// Handler processes a single event instance. Handlers must be safe for
// concurrent use: the bus may be published to from multiple goroutines.
type Handler func(ctx context.Context, event Event) error

// Publisher is the narrow interface used by code that only emits events.
type Publisher interface {
	// Publish dispatches the event to every handler registered for its exact
	// name. Publishing an event with no registered handlers is a no-op.
	Publish(ctx context.Context, event Event) error
}

// Subscriber is the narrow interface used during startup registration.
type Subscriber interface {
	// Subscribe registers a handler for the given event name. It fails once
	// the bus has been frozen.
	Subscribe(name string, handler Handler) error
}

// Bus is a synchronous in-process event bus. Handlers registered for an
// event name are invoked in registration order on the publishing goroutine.
// Handler failures are isolated: a failing handler does not prevent the
// remaining handlers from running, and Publish returns all failures joined.
//
// Delivery is at-most-once and not persisted. Deferred, retried delivery is
// layered on top by the job queue worker, which republishes persisted
// events through this bus.
type Bus struct {
	mu       sync.RWMutex
	frozen   bool
	handlers map[string][]Handler

	published     metric.Int64Counter
	handlerErrors metric.Int64Counter
}

// Options configure the bus.
type Options struct {
	// MeterProvider is used to instrument publish and failure counts.
	// When nil, metrics are disabled.
	MeterProvider metric.MeterProvider
}

// NewBus creates an empty bus. Subscriptions should happen during startup,
// followed by Freeze before the application begins serving.
func NewBus(opts Options) *Bus {
	mp := opts.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	meter := mp.Meter("modulith/pkg/events")

	published, _ := meter.Int64Counter("events_published_total",
		metric.WithDescription("Number of events published on the in-process bus."))
	handlerErrors, _ := meter.Int64Counter("event_handler_errors_total",
		metric.WithDescription("Number of event handler invocations that returned an error."))

	return &Bus{
		handlers:      make(map[string][]Handler),
		published:     published,
		handlerErrors: handlerErrors,
	}
}

// Subscribe registers a handler for the given event name. Multiple handlers
// may be registered for one name; they run in registration order.
func (b *Bus) Subscribe(name string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return fmt.Errorf("could not subscribe to %q: %w", name, ErrFrozen)
	}

	b.handlers[name] = append(b.handlers[name], handler)

	return nil
}

// Freeze seals the registration table. Intended to be called once, after all
// installed domains have registered their handlers.
func (b *Bus) Freeze() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true
}

// Publish dispatches the event synchronously to all handlers registered for
// its exact name. All handlers run even when earlier ones fail; the returned
// error joins every handler failure, or is nil when all succeeded.
func (b *Bus) Publish(ctx context.Context, event Event) error {
	name := event.EventName()

	b.mu.RLock()
	handlers := b.handlers[name]
	b.mu.RUnlock()

	attrs := metric.WithAttributes(attribute.String("event", name))
	b.published.Add(ctx, 1, attrs)

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.handlerErrors.Add(ctx, 1, attrs)
			errs = append(errs, fmt.Errorf("handler for %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// HandlerCount returns the number of handlers registered for an event name.
func (b *Bus) HandlerCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.handlers[name])
}

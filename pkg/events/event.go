// Package events implements the in-process domain event bus. Domains define
// event types, register handlers against the bus during startup and publish
// event instances at runtime. Shared cross-domain contracts live in the
// events/contracts subpackage.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event and contract. The returned name
// identifies the event type on the bus; dispatch matches on the exact name.
type Event interface {
	EventName() string
}

// Metadata carries the identity and publication time of an event instance.
// Concrete event types embed it so every instance is traceable.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID uuid.UUID `json:"id"`
	// OccurredAt is the time the event was created, in UTC.
	OccurredAt time.Time `json:"occurredAt"`
}

// NewMetadata returns Metadata for an event created now.
func NewMetadata() Metadata {
	return Metadata{
		ID:         uuid.New(),
		OccurredAt: time.Now().UTC(),
	}
}

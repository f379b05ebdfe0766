package events

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownEvent is returned by Decode when no codec has been registered
// for an event name.
var ErrUnknownEvent = errors.New("unknown event")

// DecodeFunc reconstructs an event instance from its JSON payload.
type DecodeFunc func(payload []byte) (Event, error)

// codecs maps event names to decoders for events that travel through the job
// queue. Registration happens from package init functions of the packages
// owning the event types, before any job is worked.
var (
	codecMu sync.RWMutex
	codecs  = make(map[string]DecodeFunc)
)

// RegisterCodec registers a decoder for the given event name. Registering the
// same name twice panics: event names are process-wide identities and a
// collision is a programming error.
func RegisterCodec(name string, decode DecodeFunc) {
	codecMu.Lock()
	defer codecMu.Unlock()

	if _, dup := codecs[name]; dup {
		panic(fmt.Sprintf("events: codec for %q registered twice", name))
	}
	codecs[name] = decode
}

// Decode reconstructs an event from its name and JSON payload. It fails when
// no codec has been registered for the name.
func Decode(name string, payload []byte) (Event, error) {
	codecMu.RLock()
	decode, ok := codecs[name]
	codecMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no codec registered for event %q: %w", name, ErrUnknownEvent)
	}

	return decode(payload)
}

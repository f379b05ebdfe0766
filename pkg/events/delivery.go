package events

import (
	"encoding/json"
	"fmt"
)

// DeliveryArgs is the job payload used to push an event through the job
// queue for deferred delivery. Services insert it in the same transaction as
// the state change it describes; the worker decodes the payload with the
// registered codec and republishes the event on the bus after commit.
type DeliveryArgs struct {
	// Name is the event name used to look up the codec and the handlers.
	Name string `json:"name"`
	// Payload is the JSON encoding of the event instance.
	Payload json.RawMessage `json:"payload"`
}

// Kind implements river.JobArgs.
func (DeliveryArgs) Kind() string { return "event_delivery" }

// NewDeliveryArgs serializes the event into job args for queue transport.
func NewDeliveryArgs(event Event) (DeliveryArgs, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return DeliveryArgs{}, fmt.Errorf("could not marshal event %q: %w", event.EventName(), err)
	}

	return DeliveryArgs{
		Name:    event.EventName(),
		Payload: payload,
	}, nil
}

// Event decodes the carried payload back into its event instance.
func (a DeliveryArgs) Event() (Event, error) {
	return Decode(a.Name, a.Payload)
}

// Package contracts holds the shared cross-domain event type definitions.
// Contracts are owned by the shared kernel: domains reference them when
// emitting or subscribing but never mutate them. Two domains may build their
// own local events on a contract without sharing handlers; handler sharing
// only happens through explicit subscription to the contract's name.
package contracts

import (
	"encoding/json"

	"modulith/pkg/domain"
	"modulith/pkg/events"
)

// UserSavedName is the bus name of the UserSaved contract.
const UserSavedName = "contracts.user_saved"

// UserSaved announces that a user record was created or materially updated.
// Emitted by the authentication domain; the authorization domain subscribes
// to it to assign default roles.
type UserSaved struct {
	events.Metadata

	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
}

// EventName implements events.Event.
func (UserSaved) EventName() string { return UserSavedName }

func init() {
	events.RegisterCodec(UserSavedName, func(payload []byte) (events.Event, error) {
		var e UserSaved
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err //nolint: wrapcheck
		}

		return e, nil
	})
}

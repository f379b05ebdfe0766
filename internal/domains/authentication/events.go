package authentication

import (
	"context"
	"fmt"

	"modulith/pkg/domain"
	"modulith/pkg/events"
	"modulith/pkg/events/contracts"
	"modulith/pkg/storage"
)

// announceUserSaved enqueues a UserSaved delivery job. Called inside the
// transaction that stored the user, so the announcement only becomes
// deliverable once the user row is committed.
func announceUserSaved(ctx context.Context, tx storage.AllStorage, user *domain.User) error {
	args, err := events.NewDeliveryArgs(contracts.UserSaved{
		Metadata: events.NewMetadata(),
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return fmt.Errorf("could not build user saved delivery: %w", err)
	}

	if _, err := tx.AddJob(ctx, args, nil); err != nil {
		return fmt.Errorf("could not enqueue user saved delivery: %w", err)
	}

	return nil
}

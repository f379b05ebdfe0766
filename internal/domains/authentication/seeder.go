package authentication

import (
	"context"
	"fmt"

	"modulith/pkg/auth"
	"modulith/pkg/domain"
	"modulith/pkg/logger"
	"modulith/pkg/storage"

	"go.uber.org/zap"
)

// Default account created by the seeder. The password is for local
// development only and must be changed in any shared environment.
const (
	seedAdminUsername = "admin"
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin12345"
)

// seed creates the default admin account when it does not exist yet. The
// UserSaved announcement is enqueued in the same transaction so the
// authorization domain picks the account up like any registered user.
func seed(ctx context.Context, store storage.Storage) error {
	existing, err := store.UserByLogin(ctx, seedAdminUsername)
	if err != nil {
		return fmt.Errorf("could not check for seeded admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := auth.HashPassword(seedAdminPassword)
	if err != nil {
		return fmt.Errorf("could not hash seed password: %w", err)
	}

	if err := store.WithTx(ctx, func(tx storage.AllStorage) error {
		user, err := tx.StoreUser(ctx, domain.User{
			Username:     seedAdminUsername,
			Email:        seedAdminEmail,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("could not store seeded admin: %w", err)
		}

		return announceUserSaved(ctx, tx, user)
	}); err != nil {
		return err //nolint: wrapcheck
	}

	logger.Warn(ctx, "seeded default admin account, change its password",
		zap.String("username", seedAdminUsername))

	return nil
}

package authorization_test

import (
	"context"
	"testing"

	"modulith/internal/domains/authorization"
	"modulith/pkg/events"
	"modulith/pkg/events/contracts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnUserSavedAssignsDefaultRole(t *testing.T) {
	t.Parallel()

	st, svc := newTestService(t)
	ctx := context.Background()

	createRole(t, svc, authorization.DefaultRoleName)
	user := storeUser(t, st, "alice")

	bus := events.NewBus(events.Options{})
	dom := authorization.NewDomain(svc)
	require.NoError(t, dom.RegisterEventHandlers(bus))
	bus.Freeze()

	err := bus.Publish(ctx, contracts.UserSaved{
		Metadata: events.NewMetadata(),
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	require.NoError(t, err)

	roles, err := svc.UserRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, authorization.DefaultRoleName, roles[0].Name)
}

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()

	st, svc := newTestService(t)
	ctx := context.Background()

	dom := authorization.NewDomain(svc)
	require.NoError(t, dom.Seed(ctx, st))

	roles, err := svc.Roles(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, roles)

	permissions, err := svc.Permissions(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, permissions)

	// seeding again must not duplicate anything
	require.NoError(t, dom.Seed(ctx, st))

	again, err := svc.Roles(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(roles))

	permsAgain, err := svc.Permissions(ctx)
	require.NoError(t, err)
	assert.Len(t, permsAgain, len(permissions))
}

package events_test

import (
	"context"
	"errors"
	"testing"

	"modulith/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	events.Metadata

	Value string `json:"value"`
}

func (testEvent) EventName() string { return "test.event" }

func TestPublishInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})

	var order []string
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		order = append(order, "first")

		return nil
	}))
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		order = append(order, "second")

		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), testEvent{}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestPublishWithoutHandlers(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})
	require.NoError(t, bus.Publish(context.Background(), testEvent{}))
}

func TestHandlerErrorsIsolated(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})

	errFirst := errors.New("first failed")
	ran := false
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		return errFirst
	}))
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		ran = true

		return nil
	}))

	err := bus.Publish(context.Background(), testEvent{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.True(t, ran, "second handler should run despite the first failing")
}

func TestPublishJoinsAllErrors(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})

	errA := errors.New("a")
	errB := errors.New("b")
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		return errA
	}))
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		return errB
	}))

	err := bus.Publish(context.Background(), testEvent{})
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestSubscribeAfterFreeze(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})
	require.NoError(t, bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		return nil
	}))

	bus.Freeze()

	err := bus.Subscribe("test.event", func(_ context.Context, _ events.Event) error {
		return nil
	})
	require.ErrorIs(t, err, events.ErrFrozen)

	// existing subscriptions keep working
	require.NoError(t, bus.Publish(context.Background(), testEvent{}))
	assert.Equal(t, 1, bus.HandlerCount("test.event"))
}

func TestExactNameMatching(t *testing.T) {
	t.Parallel()

	bus := events.NewBus(events.Options{})

	called := false
	require.NoError(t, bus.Subscribe("other.event", func(_ context.Context, _ events.Event) error {
		called = true

		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), testEvent{}))
	assert.False(t, called, "handler for a different name must not run")
}

package worker

import (
	"context"
	"errors"
	"fmt"

	"modulith/pkg/events"
	"modulith/pkg/logger"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// EventDeliveryWorker decodes persisted events and republishes them on the
// in-process bus. Services enqueue delivery jobs inside the transaction that
// produced the event, so handlers only ever see committed state. Handler
// failures make the job retry with river's backoff; handlers must therefore
// tolerate repeated delivery.
type EventDeliveryWorker struct {
	river.WorkerDefaults[events.DeliveryArgs]

	publisher events.Publisher
}

// NewEventDeliveryWorker constructs the delivery worker publishing on the
// given bus.
func NewEventDeliveryWorker(publisher events.Publisher) *EventDeliveryWorker {
	return &EventDeliveryWorker{publisher: publisher}
}

// Work decodes and publishes a single event. An unknown event name means a
// codec was never registered for it; retrying cannot fix that, so the job is
// cancelled instead.
func (w *EventDeliveryWorker) Work(ctx context.Context, job *river.Job[events.DeliveryArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.String("event", job.Args.Name))

	event, err := job.Args.Event()
	if err != nil {
		if errors.Is(err, events.ErrUnknownEvent) {
			logger.Error(ctx, "no codec registered for event", zap.Error(err))

			return river.JobCancel(err) //nolint: wrapcheck
		}

		return fmt.Errorf("could not decode event: %w", err)
	}

	if err := w.publisher.Publish(ctx, event); err != nil {
		logger.Error(ctx, "event handlers failed", zap.Error(err))

		return fmt.Errorf("could not deliver event: %w", err)
	}

	logger.Debug(ctx, "event delivered")

	return nil
}

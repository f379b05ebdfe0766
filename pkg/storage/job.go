package storage

import (
	"context"

	"github.com/riverqueue/river"
)

// JobStorage defines the minimal interface for enqueueing background jobs,
// primarily deferred event deliveries. Insertion is atomic with respect to a
// surrounding transaction when the backend supports it, so an event job and
// the state change it describes commit or roll back together.
type JobStorage interface {
	// AddJob enqueues a new job with the given arguments. The returned bool is
	// false when an equivalent unique job already existed.
	AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error)
}

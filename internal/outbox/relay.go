// Package outbox drains committed dispatch intents from the ledger to the
// work queue. Writing the intent in the same transaction as the job closes
// the window where a crash between commit and enqueue would strand a queued
// job forever.
package outbox

import (
	"context"
	"log"
	"time"

	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/queue"
)

// Store is the ledger side of the relay
type Store interface {
	DispatchPending(ctx context.Context, limit int, send func(ctx context.Context, entry db.OutboxEntry) error) (int, error)
}

// Sink is the queue side of the relay
type Sink interface {
	Enqueue(ctx context.Context, msg queue.Message) error
}

// DefaultInterval is the poll interval between relay passes
const DefaultInterval = 500 * time.Millisecond

// DefaultBatchSize bounds how many intents one pass claims
const DefaultBatchSize = 50

// Relay periodically moves pending dispatch intents to the queue
type Relay struct {
	store    Store
	sink     Sink
	interval time.Duration
	batch    int
}

// New creates a relay with default interval and batch size
func New(store Store, sink Sink) *Relay {
	return &Relay{
		store:    store,
		sink:     sink,
		interval: DefaultInterval,
		batch:    DefaultBatchSize,
	}
}

// NewWithInterval creates a relay with a custom poll interval
func NewWithInterval(store Store, sink Sink, interval time.Duration, batch int) *Relay {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &Relay{store: store, sink: sink, interval: interval, batch: batch}
}

// Run polls until ctx is cancelled. Dispatch errors are logged and retried
// on the next pass; they never stop the loop.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Printf("outbox relay started (interval %s, batch %d)", r.interval, r.batch)
	for {
		select {
		case <-ctx.Done():
			log.Println("outbox relay stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				log.Printf("outbox relay pass failed: %v", err)
			}
		}
	}
}

// RunOnce performs a single relay pass and reports how many intents it
// dispatched
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	return r.store.DispatchPending(ctx, r.batch, func(ctx context.Context, entry db.OutboxEntry) error {
		return r.sink.Enqueue(ctx, queue.Message{
			JobID:     entry.JobID.String(),
			PackageID: entry.PackageID.String(),
		})
	})
}

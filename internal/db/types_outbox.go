package db

import (
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a pending dispatch intent. The row is written in the same
// transaction as the job it refers to, so a committed job always has a
// committed intent; the relay drains intents to the work queue afterwards.
// Delivery is at-least-once: a relay crash between push and mark re-delivers.
type OutboxEntry struct {
	ID           int64      `json:"id"`
	JobID        uuid.UUID  `json:"job_id"`
	PackageID    uuid.UUID  `json:"package_id"`
	CreatedAt    time.Time  `json:"created_at"`
	DispatchedAt *time.Time `json:"dispatched_at,omitempty"`
}

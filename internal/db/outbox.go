package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// insertOutboxTx records a dispatch intent inside the transaction that
// creates the job it refers to
func insertOutboxTx(ctx context.Context, tx pgx.Tx, jobID, packageID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO dispatch_outbox (job_id, package_id) VALUES ($1, $2)`,
		jobID, packageID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dispatch intent: %w", err)
	}
	return nil
}

// DispatchPending claims up to limit undispatched outbox rows, invokes send
// for each and marks the sent ones dispatched, all inside one transaction.
// FOR UPDATE SKIP LOCKED keeps concurrent relays off each other's batches.
// A send failure leaves that row and the remainder of the batch pending for
// the next pass; rows already sent in the batch stay marked.
func (db *DB) DispatchPending(ctx context.Context, limit int, send func(ctx context.Context, entry OutboxEntry) error) (int, error) {
	if limit <= 0 {
		limit = 50
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	rows, err := tx.Query(ctx,
		`SELECT id, job_id, package_id, created_at, dispatched_at
		 FROM dispatch_outbox
		 WHERE dispatched_at IS NULL
		 ORDER BY id ASC
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`,
		limit,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim dispatch intents: %w", err)
	}

	var entries []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.JobID, &e.PackageID, &e.CreatedAt, &e.DispatchedAt); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan dispatch intent: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to read dispatch intents: %w", err)
	}

	sent := 0
	var sendErr error
	for _, e := range entries {
		if err := send(ctx, e); err != nil {
			sendErr = fmt.Errorf("failed to dispatch job %s: %w", e.JobID, err)
			break
		}
		if _, err := tx.Exec(ctx,
			`UPDATE dispatch_outbox SET dispatched_at = NOW() WHERE id = $1`, e.ID,
		); err != nil {
			sendErr = fmt.Errorf("failed to mark dispatch: %w", err)
			break
		}
		sent++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit dispatch batch: %w", err)
	}
	return sent, sendErr
}

// PendingDispatchCount reports how many intents await the relay
func (db *DB) PendingDispatchCount(ctx context.Context) (int, error) {
	var n int
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM dispatch_outbox WHERE dispatched_at IS NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending dispatches: %w", err)
	}
	return n, nil
}

//go:build integration

package db

import (
	"context"
	"errors"
	"testing"
)

func TestIntegration_DispatchPending(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)

	var sent []OutboxEntry
	n, err := db.DispatchPending(ctx, 10, func(_ context.Context, entry OutboxEntry) error {
		sent = append(sent, entry)
		return nil
	})
	if err != nil {
		t.Fatalf("DispatchPending failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched %d intents, expected 1", n)
	}
	if sent[0].JobID != job.ID || sent[0].PackageID != pkg.ID {
		t.Error("dispatched intent does not reference the created job")
	}

	// Dispatched intents are not claimed again
	n, err = db.DispatchPending(ctx, 10, func(_ context.Context, _ OutboxEntry) error {
		t.Error("send invoked for already-dispatched intent")
		return nil
	})
	if err != nil {
		t.Fatalf("DispatchPending (second pass) failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second pass dispatched %d intents, expected 0", n)
	}

	pending, err := db.PendingDispatchCount(ctx)
	if err != nil {
		t.Fatalf("PendingDispatchCount failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("pending count = %d after dispatch, expected 0", pending)
	}
}

func TestIntegration_DispatchPendingSendFailureLeavesIntent(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	seedPackage(t, db)

	sendErr := errors.New("queue unavailable")
	n, err := db.DispatchPending(ctx, 10, func(_ context.Context, _ OutboxEntry) error {
		return sendErr
	})
	if err == nil {
		t.Fatal("expected send failure to be reported")
	}
	if n != 0 {
		t.Errorf("dispatched %d intents despite send failure", n)
	}

	// The intent stays pending for the next pass
	pending, err := db.PendingDispatchCount(ctx)
	if err != nil {
		t.Fatalf("PendingDispatchCount failed: %v", err)
	}
	if pending != 1 {
		t.Errorf("pending count = %d, expected 1", pending)
	}
}

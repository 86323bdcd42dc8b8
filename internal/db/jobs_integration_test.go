//go:build integration

package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestIntegration_StartJob(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	_, job := seedPackage(t, db)

	started, err := db.StartJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}
	if started.Status != JobStatusRunning {
		t.Errorf("started job status = %q, expected running", started.Status)
	}
	if started.StartedAt == nil {
		t.Error("started job has no started_at")
	}

	// A duplicate delivery must be rejected without modifying the job
	_, err = db.StartJob(ctx, job.ID)
	var conflict *ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict on second start, got %T: %v", err, err)
	}
	if !strings.Contains(conflict.Reason, "running") {
		t.Errorf("conflict reason %q does not name the current status", conflict.Reason)
	}

	// Unknown jobs are distinguished from guarded ones
	_, err = db.StartJob(ctx, uuid.New())
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrNotFound for unknown job, got %T: %v", err, err)
	}
}

func TestIntegration_CompleteJob(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)

	if _, err := db.StartJob(ctx, job.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	files := []DocumentInput{
		{DocType: DocumentTypeContract, Filename: "Contract.pdf", StorageKey: "out/contract.pdf", ContentType: "application/pdf"},
		{DocType: DocumentTypeBundle, Filename: "Bundle.pdf", StorageKey: "out/bundle.pdf"},
	}
	done, err := db.CompleteJob(ctx, job.ID, files)
	if err != nil {
		t.Fatalf("CompleteJob failed: %v", err)
	}
	if done.Status != JobStatusDone {
		t.Errorf("completed job status = %q, expected done", done.Status)
	}
	if done.FinishedAt == nil {
		t.Error("completed job has no finished_at")
	}

	// Package flips to generated in the same transaction
	got, err := db.GetPackageByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetPackageByID failed: %v", err)
	}
	if got.Status != PackageStatusGenerated {
		t.Errorf("package status = %q, expected generated", got.Status)
	}

	// Documents recorded at the job's version; missing content type defaulted
	docs, err := db.ListDocumentsByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListDocumentsByPackage failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	for _, d := range docs {
		if d.Version != job.Version {
			t.Errorf("document %s version = %d, expected %d", d.DocType, d.Version, job.Version)
		}
	}
	for _, d := range docs {
		if d.DocType == DocumentTypeBundle && d.ContentType != DefaultContentType {
			t.Errorf("bundle content type = %q, expected default", d.ContentType)
		}
	}

	// Completing twice is a conflict
	_, err = db.CompleteJob(ctx, job.ID, files)
	var conflict *ErrConflict
	if !errors.As(err, &conflict) {
		t.Errorf("expected ErrConflict on double completion, got %T: %v", err, err)
	}
}

func TestIntegration_CompleteJobVersionMismatch(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)
	if _, err := db.StartJob(ctx, job.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	wrong := job.Version + 1
	_, err := db.CompleteJob(ctx, job.ID, []DocumentInput{
		{DocType: DocumentTypeContract, Filename: "Contract.pdf", StorageKey: "out/contract.pdf", Version: &wrong},
	})
	var mismatch *ErrVersionMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %T: %v", err, err)
	}

	// The rejection must leave nothing behind
	docs, err := db.ListDocumentsByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListDocumentsByPackage failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents after rejected completion, got %d", len(docs))
	}
	current, err := db.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJobByID failed: %v", err)
	}
	if current.Status != JobStatusRunning {
		t.Errorf("job status after rejection = %q, expected running", current.Status)
	}
}

func TestIntegration_CompleteJobDuplicateDocumentRejectsAll(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)
	if _, err := db.StartJob(ctx, job.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	_, err := db.CompleteJob(ctx, job.ID, []DocumentInput{
		{DocType: DocumentTypeContract, Filename: "Contract.pdf", StorageKey: "out/a.pdf"},
		{DocType: DocumentTypeContract, Filename: "Contract.pdf", StorageKey: "out/b.pdf"},
	})
	var integrity *ErrIntegrity
	if !errors.As(err, &integrity) {
		t.Fatalf("expected ErrIntegrity for duplicate (doc_type, version), got %T: %v", err, err)
	}

	// All-or-nothing: the first insert must be rolled back too
	docs, err := db.ListDocumentsByPackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("ListDocumentsByPackage failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents after rejected batch, got %d", len(docs))
	}
}

func TestIntegration_FailJob(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)
	if _, err := db.StartJob(ctx, job.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}

	long := strings.Repeat("renderer stack trace line\n", 200)
	failed, err := db.FailJob(ctx, job.ID, long)
	if err != nil {
		t.Fatalf("FailJob failed: %v", err)
	}
	if failed.Status != JobStatusError {
		t.Errorf("failed job status = %q, expected error", failed.Status)
	}
	if failed.ErrorMessage == nil {
		t.Fatal("failed job has no error message")
	}
	if len(*failed.ErrorMessage) != MaxErrorMessageLen {
		t.Errorf("stored error message length = %d, expected %d", len(*failed.ErrorMessage), MaxErrorMessageLen)
	}

	got, err := db.GetPackageByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetPackageByID failed: %v", err)
	}
	if got.Status != PackageStatusError {
		t.Errorf("package status = %q, expected error", got.Status)
	}

	// Failing a terminal job is a conflict
	_, err = db.FailJob(ctx, job.ID, "again")
	var conflict *ErrConflict
	if !errors.As(err, &conflict) {
		t.Errorf("expected ErrConflict on double failure, got %T: %v", err, err)
	}
}

func TestIntegration_RegeneratePackage(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, first := seedPackage(t, db)

	second, err := db.RegeneratePackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("RegeneratePackage failed: %v", err)
	}
	if second.Version != 2 {
		t.Errorf("second job version = %d, expected 2", second.Version)
	}
	if second.Status != JobStatusQueued {
		t.Errorf("second job status = %q, expected queued", second.Status)
	}
	if second.ID == first.ID {
		t.Error("regeneration reused the first job")
	}

	third, err := db.RegeneratePackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("RegeneratePackage (second call) failed: %v", err)
	}
	if third.Version != 3 {
		t.Errorf("third job version = %d, expected 3", third.Version)
	}

	got, err := db.GetPackageByID(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetPackageByID failed: %v", err)
	}
	if got.VersionCounter != 3 {
		t.Errorf("package version counter = %d, expected 3", got.VersionCounter)
	}

	// Regenerating a missing package is a not-found, not a silent no-op
	_, err = db.RegeneratePackage(ctx, uuid.New())
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Errorf("expected ErrNotFound for unknown package, got %T: %v", err, err)
	}
}

func TestIntegration_GetLatestBundle(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	pkg, job := seedPackage(t, db)

	// No documents yet
	bundle, err := db.GetLatestBundle(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetLatestBundle failed: %v", err)
	}
	if bundle != nil {
		t.Error("expected nil bundle before completion")
	}

	if _, err := db.StartJob(ctx, job.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}
	if _, err := db.CompleteJob(ctx, job.ID, []DocumentInput{
		{DocType: DocumentTypeBundle, Filename: "Bundle.pdf", StorageKey: "out/v1/bundle.pdf"},
	}); err != nil {
		t.Fatalf("CompleteJob failed: %v", err)
	}

	bundle, err = db.GetLatestBundle(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetLatestBundle failed: %v", err)
	}
	if bundle == nil {
		t.Fatal("expected bundle, got nil")
	}
	if bundle.StorageKey != "out/v1/bundle.pdf" {
		t.Errorf("bundle storage key = %q", bundle.StorageKey)
	}

	// After a regeneration completes, the newer bundle wins
	next, err := db.RegeneratePackage(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("RegeneratePackage failed: %v", err)
	}
	if _, err := db.StartJob(ctx, next.ID); err != nil {
		t.Fatalf("StartJob failed: %v", err)
	}
	if _, err := db.CompleteJob(ctx, next.ID, []DocumentInput{
		{DocType: DocumentTypeBundle, Filename: "Bundle.pdf", StorageKey: "out/v2/bundle.pdf"},
	}); err != nil {
		t.Fatalf("CompleteJob failed: %v", err)
	}

	bundle, err = db.GetLatestBundle(ctx, pkg.ID)
	if err != nil {
		t.Fatalf("GetLatestBundle failed: %v", err)
	}
	if bundle == nil || bundle.StorageKey != "out/v2/bundle.pdf" {
		t.Errorf("expected latest bundle out/v2/bundle.pdf, got %+v", bundle)
	}
}

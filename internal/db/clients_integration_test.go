//go:build integration

package db

import (
	"context"
	"testing"
	"time"
)

func TestIntegration_UpsertClient(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	dob := time.Date(1985, time.February, 20, 0, 0, 0, 0, time.UTC)
	first, err := db.UpsertClient(ctx, ClientUpsertInput{
		FullName:   "PETROV PETR",
		PassportNo: "TESTUPSERT01",
		DOB:        dob,
	})
	if err != nil {
		t.Fatalf("UpsertClient failed: %v", err)
	}

	// Same (passport_no, dob) refreshes the record instead of duplicating it
	mrz := "P<RUSPETROV<<PETR<<<<<<<<<<<<<<<<<<<<<<<<<<<"
	issuing := "RUS"
	second, err := db.UpsertClient(ctx, ClientUpsertInput{
		FullName:       "PETROV PETR IVANOVICH",
		PassportNo:     "TESTUPSERT01",
		DOB:            dob,
		MRZ:            &mrz,
		IssuingCountry: &issuing,
	})
	if err != nil {
		t.Fatalf("UpsertClient (second call) failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new client: %s vs %s", first.ID, second.ID)
	}
	if second.FullName != "PETROV PETR IVANOVICH" {
		t.Errorf("full name not refreshed: %q", second.FullName)
	}
	if second.IssuingCountry == nil || *second.IssuingCountry != "RUS" {
		t.Error("issuing country not refreshed")
	}

	// Same passport, different DOB is a different person
	third, err := db.UpsertClient(ctx, ClientUpsertInput{
		FullName:   "PETROV PETR",
		PassportNo: "TESTUPSERT01",
		DOB:        dob.AddDate(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("UpsertClient (different dob) failed: %v", err)
	}
	if third.ID == first.ID {
		t.Error("different dob reused the same client")
	}
}

func TestIntegration_SearchClients(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	dob := time.Date(1992, time.July, 3, 0, 0, 0, 0, time.UTC)
	if _, err := db.UpsertClient(ctx, ClientUpsertInput{
		FullName:   "SIDOROVA ANNA",
		PassportNo: "TESTSEARCH01",
		DOB:        dob,
	}); err != nil {
		t.Fatalf("UpsertClient failed: %v", err)
	}

	// Case-insensitive name match
	results, err := db.SearchClients(ctx, "sidorova", 10)
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result for name search, got %d", len(results))
	}

	// Passport substring match
	results, err = db.SearchClients(ctx, "TESTSEARCH", 10)
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result for passport search, got %d", len(results))
	}

	// No match
	results, err = db.SearchClients(ctx, "nobody-here", 10)
	if err != nil {
		t.Fatalf("SearchClients failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

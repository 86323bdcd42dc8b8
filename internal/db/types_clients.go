package db

import (
	"time"

	"github.com/google/uuid"
)

// Client represents an identity document holder. (passport_no, dob) is the
// upsert key: a generation request for a known passport+dob pair updates the
// existing row instead of creating a duplicate.
type Client struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	PassportNo     string    `json:"passport_no"`
	DOB            time.Time `json:"dob"`
	MRZ            *string   `json:"mrz,omitempty"`
	IssuingCountry *string   `json:"issuing_country,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ClientUpsertInput holds the fields resolved from a generation request
type ClientUpsertInput struct {
	FullName       string
	PassportNo     string
	DOB            time.Time
	MRZ            *string
	IssuingCountry *string
}

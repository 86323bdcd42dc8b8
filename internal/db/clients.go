package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertClient inserts a client or, when (passport_no, dob) already exists,
// refreshes the mutable fields of the existing row
func (db *DB) UpsertClient(ctx context.Context, input ClientUpsertInput) (*Client, error) {
	var c Client
	err := db.pool.QueryRow(ctx,
		`INSERT INTO clients (full_name, passport_no, dob, mrz, issuing_country)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (passport_no, dob) DO UPDATE SET
		     full_name = $1,
		     mrz = $4,
		     issuing_country = $5,
		     updated_at = NOW()
		 RETURNING id, full_name, passport_no, dob, mrz, issuing_country, created_at, updated_at`,
		input.FullName, input.PassportNo, input.DOB, input.MRZ, input.IssuingCountry,
	).Scan(&c.ID, &c.FullName, &c.PassportNo, &c.DOB, &c.MRZ, &c.IssuingCountry,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert client: %w", err)
	}
	return &c, nil
}

// GetClientByID retrieves a client by its UUID
func (db *DB) GetClientByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	var c Client
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, passport_no, dob, mrz, issuing_country, created_at, updated_at
		 FROM clients WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.FullName, &c.PassportNo, &c.DOB, &c.MRZ, &c.IssuingCountry,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &c, nil
}

// SearchClients returns recent clients, optionally filtered by a substring
// match on full name or passport number
func (db *DB) SearchClients(ctx context.Context, query string, limit int) ([]Client, error) {
	if limit <= 0 {
		limit = 30
	}

	sql := `SELECT id, full_name, passport_no, dob, mrz, issuing_country, created_at, updated_at
		FROM clients`
	args := []any{}
	if query != "" {
		sql += ` WHERE full_name ILIKE $1 OR passport_no LIKE $1`
		args = append(args, "%"+query+"%")
	}
	sql += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := db.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.FullName, &c.PassportNo, &c.DOB, &c.MRZ,
			&c.IssuingCountry, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, nil
}

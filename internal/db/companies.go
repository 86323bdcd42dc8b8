package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateCompany inserts a new company. Created via the internal
// administrative endpoint only; company names are globally unique.
func (db *DB) CreateCompany(ctx context.Context, input CompanyCreateInput) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, seal_key, logo_key, director_sign_key, client_sign_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, name, seal_key, logo_key, director_sign_key, client_sign_key, created_at, updated_at`,
		input.Name, input.SealKey, input.LogoKey, input.DirectorSignKey, input.ClientSignKey,
	).Scan(&c.ID, &c.Name, &c.SealKey, &c.LogoKey, &c.DirectorSignKey, &c.ClientSignKey,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if _, ok := asUniqueViolation(err); ok {
			return nil, &ErrConflict{Reason: fmt.Sprintf("company %q already exists", input.Name)}
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return &c, nil
}

// GetCompanyByID retrieves a company by its UUID
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	var c Company
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, seal_key, logo_key, director_sign_key, client_sign_key, created_at, updated_at
		 FROM companies WHERE id = $1`,
		id,
	).Scan(&c.ID, &c.Name, &c.SealKey, &c.LogoKey, &c.DirectorSignKey, &c.ClientSignKey,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return &c, nil
}

// ListCompanies retrieves all companies in creation order
func (db *DB) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, seal_key, logo_key, director_sign_key, client_sign_key, created_at, updated_at
		 FROM companies ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.SealKey, &c.LogoKey, &c.DirectorSignKey,
			&c.ClientSignKey, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, nil
}

// UpdateCompanyAssets replaces the renderer asset keys of a company
func (db *DB) UpdateCompanyAssets(ctx context.Context, id uuid.UUID, sealKey, logoKey, directorSignKey, clientSignKey string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE companies SET seal_key = $1, logo_key = $2, director_sign_key = $3,
		        client_sign_key = $4, updated_at = NOW()
		 WHERE id = $5`,
		sealKey, logoKey, directorSignKey, clientSignKey, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update company assets: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Entity: "company", ID: id.String()}
	}
	return nil
}

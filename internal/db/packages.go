package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const packageColumns = `id, status, client_id, company_id, currency, fx_source, fx_rate,
	salary_rub, position, start_date, contract_start_date, contract_number,
	contract_template, insurance_template, country_display, address, version_counter,
	created_at, updated_at`

func scanPackage(row pgx.Row) (*Package, error) {
	var p Package
	err := row.Scan(&p.ID, &p.Status, &p.ClientID, &p.CompanyID, &p.Currency, &p.FxSource,
		&p.FxRate, &p.SalaryRub, &p.Position, &p.StartDate, &p.ContractStart,
		&p.ContractNumber, &p.ContractTmpl, &p.InsuranceTmpl, &p.CountryDisplay,
		&p.Address, &p.VersionCounter, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ContractNumberExists checks whether a candidate contract number is taken
func (db *DB) ContractNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM packages WHERE contract_number = $1)`,
		number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check contract number: %w", err)
	}
	return exists, nil
}

// AllocateContractNumber generates candidates until one is globally unique,
// up to ContractNumberAttempts. No reservation is held between the check and
// the insert; the final commit can still collide, which surfaces as an
// integrity violation there.
func (db *DB) AllocateContractNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	for i := 0; i < ContractNumberAttempts; i++ {
		candidate, err := GenerateContractNumber(year)
		if err != nil {
			return "", err
		}
		exists, err := db.ContractNumberExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", &ErrAllocationExhausted{Attempts: ContractNumberAttempts}
}

// CreatePackageWithJob creates a package with version counter 1, its first
// job (version 1, queued) and the dispatch intent for that job, all in one
// transaction. Nothing is visible to the relay until the commit.
func (db *DB) CreatePackageWithJob(ctx context.Context, input PackageCreateInput) (*Package, *Job, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	pkg, err := scanPackage(tx.QueryRow(ctx,
		`INSERT INTO packages (status, client_id, company_id, currency, fx_source, fx_rate,
		                       salary_rub, position, start_date, contract_start_date,
		                       contract_number, contract_template, insurance_template,
		                       country_display, address, version_counter)
		 VALUES ('created', $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 1)
		 RETURNING `+packageColumns,
		input.ClientID, input.CompanyID, input.Currency, input.FxSource, input.FxRate,
		input.SalaryRub, input.Position, input.StartDate, input.ContractStart,
		input.ContractNumber, input.ContractTmpl, input.InsuranceTmpl,
		input.CountryDisplay, input.Address,
	))
	if err != nil {
		if constraint, ok := asUniqueViolation(err); ok {
			return nil, nil, &ErrIntegrity{Constraint: constraint}
		}
		return nil, nil, fmt.Errorf("failed to create package: %w", err)
	}

	var job Job
	err = tx.QueryRow(ctx,
		`INSERT INTO jobs (package_id, status, version)
		 VALUES ($1, 'queued', 1)
		 RETURNING id, package_id, status, version, error_message, started_at, finished_at, created_at, updated_at`,
		pkg.ID,
	).Scan(&job.ID, &job.PackageID, &job.Status, &job.Version, &job.ErrorMessage,
		&job.StartedAt, &job.FinishedAt, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := insertOutboxTx(ctx, tx, job.ID, pkg.ID); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		if constraint, ok := asUniqueViolation(err); ok {
			return nil, nil, &ErrIntegrity{Constraint: constraint}
		}
		return nil, nil, fmt.Errorf("failed to commit package creation: %w", err)
	}
	return pkg, &job, nil
}

// GetPackageByID retrieves a package by its UUID
func (db *DB) GetPackageByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	pkg, err := scanPackage(db.pool.QueryRow(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return pkg, nil
}

// ListPackagesByClient retrieves a client's packages, newest first
func (db *DB) ListPackagesByClient(ctx context.Context, clientID uuid.UUID) ([]Package, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+packageColumns+` FROM packages WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	defer rows.Close()

	var packages []Package
	for rows.Next() {
		pkg, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, *pkg)
	}
	return packages, nil
}

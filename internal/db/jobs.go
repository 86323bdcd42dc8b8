package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, package_id, status, version, error_message, started_at, finished_at, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.PackageID, &j.Status, &j.Version, &j.ErrorMessage,
		&j.StartedAt, &j.FinishedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// GetJobByID retrieves a job by its UUID
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// RegeneratePackage allocates the package's next version and creates a new
// queued job bound to it, plus the dispatch intent, in one transaction.
// The version increment is a single UPDATE, so two concurrent calls cannot
// both observe the same counter value.
func (db *DB) RegeneratePackage(ctx context.Context, packageID uuid.UUID) (*Job, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	var version int
	err = tx.QueryRow(ctx,
		`UPDATE packages SET version_counter = version_counter + 1, updated_at = NOW()
		 WHERE id = $1
		 RETURNING version_counter`,
		packageID,
	).Scan(&version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{Entity: "package", ID: packageID.String()}
		}
		return nil, fmt.Errorf("failed to allocate version: %w", err)
	}

	job, err := scanJob(tx.QueryRow(ctx,
		`INSERT INTO jobs (package_id, status, version)
		 VALUES ($1, 'queued', $2)
		 RETURNING `+jobColumns,
		packageID, version,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	if err := insertOutboxTx(ctx, tx, job.ID, packageID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit regeneration: %w", err)
	}
	return job, nil
}

// StartJob transitions a job from queued to running. The guard lives in the
// WHERE clause, so a duplicate queue delivery of an already-started job is
// rejected without touching the row.
func (db *DB) StartJob(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	job, err := scanJob(db.pool.QueryRow(ctx,
		`UPDATE jobs SET status = 'running', started_at = NOW(), error_message = NULL, updated_at = NOW()
		 WHERE id = $1 AND status = 'queued'
		 RETURNING `+jobColumns,
		jobID,
	))
	if err == nil {
		return job, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to start job: %w", err)
	}

	// Either the job does not exist or the guard rejected the transition.
	current, err := db.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, &ErrNotFound{Entity: "job", ID: jobID.String()}
	}
	return nil, &ErrConflict{Reason: fmt.Sprintf("job is %s, not queued", current.Status)}
}

// CompleteJob records the artifacts produced for a job and transitions job
// and package together: job -> done, package -> generated. The whole call is
// one transaction; a version mismatch or a duplicate
// (package, doc_type, version) rejects everything.
func (db *DB) CompleteJob(ctx context.Context, jobID uuid.UUID, files []DocumentInput) (*Job, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	job, err := lockJobTx(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanFinish() {
		return nil, &ErrConflict{Reason: fmt.Sprintf("job is %s, not running", job.Status)}
	}

	for _, f := range files {
		if f.Version != nil && *f.Version != job.Version {
			return nil, &ErrVersionMismatch{JobVersion: job.Version, DeclaredVersion: *f.Version}
		}
		contentType := f.ContentType
		if contentType == "" {
			contentType = DefaultContentType
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO documents (package_id, doc_type, version, filename, storage_key, content_type)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			job.PackageID, f.DocType, job.Version, f.Filename, f.StorageKey, contentType,
		)
		if err != nil {
			if constraint, ok := asUniqueViolation(err); ok {
				return nil, &ErrIntegrity{Constraint: constraint}
			}
			return nil, fmt.Errorf("failed to insert document: %w", err)
		}
	}

	job, err = scanJob(tx.QueryRow(ctx,
		`UPDATE jobs SET status = 'done', error_message = NULL, finished_at = NOW(), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		jobID,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to finish job: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE packages SET status = 'generated', updated_at = NOW() WHERE id = $1`,
		job.PackageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update package status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if constraint, ok := asUniqueViolation(err); ok {
			return nil, &ErrIntegrity{Constraint: constraint}
		}
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}
	return job, nil
}

// FailJob transitions a running job to error with a truncated reason and
// marks the package as errored, in one transaction
func (db *DB) FailJob(ctx context.Context, jobID uuid.UUID, message string) (*Job, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			_ = rErr
		}
	}()

	job, err := lockJobTx(ctx, tx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanFinish() {
		return nil, &ErrConflict{Reason: fmt.Sprintf("job is %s, not running", job.Status)}
	}

	job, err = scanJob(tx.QueryRow(ctx,
		`UPDATE jobs SET status = 'error', error_message = $2, finished_at = NOW(), updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+jobColumns,
		jobID, TruncateErrorMessage(message),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to fail job: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE packages SET status = 'error', updated_at = NOW() WHERE id = $1`,
		job.PackageID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update package status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit failure: %w", err)
	}
	return job, nil
}

// lockJobTx loads a job inside tx with a row lock so two completion calls
// for the same job serialize on the guard check
func lockJobTx(ctx context.Context, tx pgx.Tx, jobID uuid.UUID) (*Job, error) {
	job, err := scanJob(tx.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`,
		jobID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, &ErrNotFound{Entity: "job", ID: jobID.String()}
		}
		return nil, fmt.Errorf("failed to lock job: %w", err)
	}
	return job, nil
}

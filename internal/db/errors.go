package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound indicates a referenced record does not exist
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// ErrConflict indicates a state-machine guard rejected a transition
type ErrConflict struct {
	Reason string
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// ErrVersionMismatch indicates an artifact's declared version disagrees
// with the job's allocated version
type ErrVersionMismatch struct {
	JobVersion      int
	DeclaredVersion int
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("version mismatch: job allocated version %d, artifact declared %d",
		e.JobVersion, e.DeclaredVersion)
}

// ErrAllocationExhausted indicates the contract number allocator ran out
// of attempts without finding a globally unique value
type ErrAllocationExhausted struct {
	Attempts int
}

func (e *ErrAllocationExhausted) Error() string {
	return fmt.Sprintf("contract number allocation exhausted after %d attempts", e.Attempts)
}

// ErrIntegrity indicates a ledger constraint violation at commit time
type ErrIntegrity struct {
	Constraint string
}

func (e *ErrIntegrity) Error() string {
	if e.Constraint == "" {
		return "ledger integrity violation"
	}
	return fmt.Sprintf("ledger integrity violation: %s", e.Constraint)
}

// uniqueViolationCode is the PostgreSQL SQLSTATE for unique_violation
const uniqueViolationCode = "23505"

// asUniqueViolation reports whether err is a unique constraint violation
// and returns the violated constraint name
func asUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a single generation attempt.
// Transitions: queued -> running -> done | error. Both done and error are
// terminal; retry happens by creating a new job, never by resetting one.
type JobStatus string

const (
	JobStatusQueued  JobStatus = "queued"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusError   JobStatus = "error"
)

// ParseJobStatus converts a string to a JobStatus
func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusQueued, JobStatusRunning, JobStatusDone, JobStatusError:
		return JobStatus(s), nil
	default:
		return "", fmt.Errorf("invalid job status: %q", s)
	}
}

// CanStart reports whether the start transition is allowed
func (s JobStatus) CanStart() bool {
	return s == JobStatusQueued
}

// CanFinish reports whether the complete or fail transition is allowed
func (s JobStatus) CanFinish() bool {
	return s == JobStatusRunning
}

// Terminal reports whether the status admits no further transitions
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// MaxErrorMessageLen bounds persisted worker error messages. Long renderer
// stack traces are cut off rather than stored whole.
const MaxErrorMessageLen = 2000

// TruncateErrorMessage enforces MaxErrorMessageLen on a failure reason.
// The limit counts runes, not bytes, so a multibyte message is never cut
// mid-character into text Postgres would reject.
func TruncateErrorMessage(msg string) string {
	if len(msg) <= MaxErrorMessageLen {
		return msg
	}
	runes := []rune(msg)
	if len(runes) <= MaxErrorMessageLen {
		return msg
	}
	return string(runes[:MaxErrorMessageLen])
}

// Job represents one generation attempt for a package
type Job struct {
	ID           uuid.UUID  `json:"id"`
	PackageID    uuid.UUID  `json:"package_id"`
	Status       JobStatus  `json:"status"`
	Version      int        `json:"version"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

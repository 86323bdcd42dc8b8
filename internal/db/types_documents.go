package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies a produced artifact
type DocumentType string

const (
	DocumentTypeContract  DocumentType = "contract"
	DocumentTypeBank      DocumentType = "bank"
	DocumentTypeInsurance DocumentType = "insurance"
	DocumentTypeSalary    DocumentType = "salary"
	DocumentTypeBundle    DocumentType = "bundle"
)

// ParseDocumentType converts a string to a DocumentType
func ParseDocumentType(s string) (DocumentType, error) {
	switch DocumentType(s) {
	case DocumentTypeContract, DocumentTypeBank, DocumentTypeInsurance,
		DocumentTypeSalary, DocumentTypeBundle:
		return DocumentType(s), nil
	default:
		return "", fmt.Errorf("invalid doc type: %q", s)
	}
}

// Document represents one produced artifact. (package_id, doc_type, version)
// is unique; rows are immutable and never deleted.
type Document struct {
	ID          uuid.UUID    `json:"id"`
	PackageID   uuid.UUID    `json:"package_id"`
	DocType     DocumentType `json:"doc_type"`
	Version     int          `json:"version"`
	Filename    string       `json:"filename"`
	StorageKey  string       `json:"storage_key"`
	ContentType string       `json:"content_type"`
	CreatedAt   time.Time    `json:"created_at"`
}

// DocumentInput describes one artifact reported by a worker on completion.
// Version is optional; when present it must match the job's allocated version.
type DocumentInput struct {
	DocType     DocumentType
	Filename    string
	StorageKey  string
	ContentType string
	Version     *int
}

// DefaultContentType is assumed for artifacts reported without one
const DefaultContentType = "application/octet-stream"

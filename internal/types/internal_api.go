package types

import (
	"github.com/go-playground/validator/v10"
)

// ArtifactFile describes one artifact reported by a worker on completion.
// Version is optional; when present it must equal the job's allocated
// version or the whole completion call is rejected.
type ArtifactFile struct {
	DocType     string `json:"doc_type" validate:"required,oneof=contract bank insurance salary bundle"`
	Version     *int   `json:"version,omitempty"`
	Filename    string `json:"filename" validate:"required"`
	StorageKey  string `json:"storage_key" validate:"required"`
	ContentType string `json:"content_type,omitempty"`
}

// CompleteRequest is the body of POST /internal/jobs/{id}/complete
type CompleteRequest struct {
	Files []ArtifactFile `json:"files" validate:"required,min=1,dive"`
}

// Validate validates the CompleteRequest using the validator
func (r *CompleteRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// FailRequest is the body of POST /internal/jobs/{id}/fail
type FailRequest struct {
	ErrorMessage string `json:"error_message" validate:"required"`
}

// Validate validates the FailRequest using the validator
func (r *FailRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CompanyCreateRequest is the body of POST /internal/companies
type CompanyCreateRequest struct {
	Name            string `json:"name" validate:"required"`
	SealKey         string `json:"seal_key" validate:"required"`
	LogoKey         string `json:"logo_key" validate:"required"`
	DirectorSignKey string `json:"director_sign_key" validate:"required"`
	ClientSignKey   string `json:"client_sign_key" validate:"required"`
}

// Validate validates the CompanyCreateRequest using the validator
func (r *CompanyCreateRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// CompanyPublic is the unauthenticated company listing entry
type CompanyPublic struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// CompanyResponse is the full company view returned to internal callers
type CompanyResponse struct {
	CompanyID       string `json:"company_id"`
	Name            string `json:"name"`
	SealKey         string `json:"seal_key"`
	LogoKey         string `json:"logo_key"`
	DirectorSignKey string `json:"director_sign_key"`
	ClientSignKey   string `json:"client_sign_key"`
}

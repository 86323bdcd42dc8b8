// Package types defines the request and response shapes of the HTTP API and
// the typed payload handed to the renderer boundary.
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// GenerateClient carries the client identity fields of a generation request
type GenerateClient struct {
	FullName       string `json:"full_name" validate:"required"`
	PassportNo     string `json:"passport_no" validate:"required"`
	DOB            string `json:"dob" validate:"required,datetime=2006-01-02"`
	MRZLine1       string `json:"mrz_line1,omitempty"`
	MRZLine2       string `json:"mrz_line2,omitempty"`
	IssuingCountry string `json:"issuing_country,omitempty"`
}

// MRZ joins the non-empty MRZ lines into one block, or returns ""
func (c *GenerateClient) MRZ() string {
	var lines []string
	for _, ln := range []string{c.MRZLine1, c.MRZLine2} {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

// GenerateRequest is the body of POST /packages/generate
type GenerateRequest struct {
	Client GenerateClient `json:"client"`

	CompanyID string `json:"company_id" validate:"required,uuid"`

	SalaryRub float64 `json:"salary_rub" validate:"required,gt=0"`
	Position  string  `json:"position" validate:"required"`

	Currency string   `json:"currency" validate:"required,oneof=USD AED"`
	FxSource string   `json:"fx_source" validate:"required,oneof=manual cbr"`
	FxRate   *float64 `json:"fx_rate,omitempty"`

	ContractTemplate  string `json:"contract_template" validate:"required"`
	InsuranceTemplate string `json:"insurance_template" validate:"required"`

	// Optional; the backend generates a placeholder when absent.
	Address string `json:"address,omitempty"`
}

// Validate validates the GenerateRequest using the validator, plus the
// cross-field rule the tags cannot express
func (r *GenerateRequest) Validate() error {
	validate := validator.New()
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.FxSource == "manual" && r.FxRate == nil {
		return fmt.Errorf("fx_rate is required for manual fx source")
	}
	if r.FxRate != nil && *r.FxRate <= 0 {
		return fmt.Errorf("fx_rate must be positive")
	}
	return nil
}

// GenerateResponse is the body returned by POST /packages/generate
type GenerateResponse struct {
	JobID     string `json:"job_id"`
	PackageID string `json:"package_id"`
}

// RegenerateResponse is the body returned by POST /packages/{id}/regenerate
type RegenerateResponse struct {
	JobID     string `json:"job_id"`
	PackageID string `json:"package_id"`
	Version   int    `json:"version"`
}

// JobStatusResponse is the body returned by GET /jobs/{id}
type JobStatusResponse struct {
	JobID        string  `json:"job_id"`
	Status       string  `json:"status"`
	ErrorMessage *string `json:"error_message,omitempty"`
	StartedAt    *string `json:"started_at,omitempty"`
	FinishedAt   *string `json:"finished_at,omitempty"`
	Version      int     `json:"version"`
}

// PackageDocument is one artifact entry in a package summary
type PackageDocument struct {
	DocType      string  `json:"doc_type"`
	Version      int     `json:"version"`
	Filename     string  `json:"filename"`
	FileKey      string  `json:"file_key"`
	ContentType  string  `json:"content_type"`
	CreatedAt    string  `json:"created_at"`
	PresignedURL *string `json:"presigned_url"`
}

// PackageClient is the masked client view in a package summary
type PackageClient struct {
	ClientID       string  `json:"client_id"`
	FullName       string  `json:"full_name"`
	PassportMasked string  `json:"passport_masked"`
	DOB            string  `json:"dob"`
	IssuingCountry *string `json:"issuing_country,omitempty"`
}

// PackageCompany is the company view in a package summary
type PackageCompany struct {
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}

// PackageResponse is the body returned by GET /packages/{id}
type PackageResponse struct {
	PackageID      string            `json:"package_id"`
	Status         string            `json:"status"`
	VersionCounter int               `json:"version_counter"`
	ContractNumber string            `json:"contract_number"`
	Currency       string            `json:"currency"`
	FxSource       string            `json:"fx_source"`
	FxRate         float64           `json:"fx_rate"`
	SalaryRub      float64           `json:"salary_rub"`
	Position       string            `json:"position"`
	Client         PackageClient     `json:"client"`
	Company        PackageCompany    `json:"company"`
	Documents      []PackageDocument `json:"documents"`
}

// ClientSearchItem is one row of GET /clients
type ClientSearchItem struct {
	ClientID       string  `json:"client_id"`
	FullName       string  `json:"full_name"`
	PassportMasked string  `json:"passport_masked"`
	DOB            string  `json:"dob"`
	IssuingCountry *string `json:"issuing_country,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// ClientDetail is the body returned by GET /clients/{id}
type ClientDetail struct {
	ClientID       string  `json:"client_id"`
	FullName       string  `json:"full_name"`
	PassportMasked string  `json:"passport_masked"`
	DOB            string  `json:"dob"`
	IssuingCountry *string `json:"issuing_country,omitempty"`
	CountryDisplay string  `json:"country_display"`
	CreatedAt      string  `json:"created_at"`
}

// ClientPackageItem is one row of GET /clients/{id}/packages
type ClientPackageItem struct {
	PackageID      string         `json:"package_id"`
	Status         string         `json:"status"`
	VersionCounter int            `json:"version_counter"`
	Company        PackageCompany `json:"company"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

// DownloadResponse carries a presigned URL
type DownloadResponse struct {
	URL string `json:"url"`
}

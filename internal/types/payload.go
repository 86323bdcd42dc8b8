package types

import (
	"github.com/go-playground/validator/v10"
)

// RendererPayload is the input bundle workers fetch for a job. The renderer
// boundary gets an explicit, validated schema; storage keys are resolved to
// local paths on the worker side, never here.
type RendererPayload struct {
	JobID       string `json:"job_id" validate:"required"`
	PackageID   string `json:"package_id" validate:"required"`
	TemplateKey string `json:"template_key" validate:"required"`

	Company PayloadCompany `json:"company"`
	Client  PayloadClient  `json:"client"`
	Job     PayloadJob     `json:"job"`
	Export  PayloadExport  `json:"export"`
}

// PayloadCompany names the issuing company and its stamped image assets
type PayloadCompany struct {
	CompanyID string        `json:"company_id" validate:"required"`
	Name      string        `json:"selected_company_name" validate:"required"`
	Assets    PayloadAssets `json:"assets"`
}

// PayloadAssets holds storage keys of the company's renderer images
type PayloadAssets struct {
	LogoKey         string `json:"logo_key" validate:"required"`
	SealKey         string `json:"seal_key" validate:"required"`
	DirectorSignKey string `json:"director_sign_key" validate:"required"`
	ClientSignKey   string `json:"client_sign_key" validate:"required"`
}

// PayloadClient holds the client fields printed into documents
type PayloadClient struct {
	FullName       string `json:"full_name" validate:"required"`
	PassportNo     string `json:"passport_no" validate:"required"`
	DOB            string `json:"dob" validate:"required"`
	Address        string `json:"address" validate:"required"`
	CountryDisplay string `json:"country_display" validate:"required"`
}

// PayloadJob holds the numbers and identifiers of this generation attempt
type PayloadJob struct {
	Version           int     `json:"version" validate:"required,gt=0"`
	CurrencySymbol    string  `json:"currency_symbol" validate:"required"`
	FxRate            float64 `json:"fx_rate" validate:"required,gt=0"`
	SalaryRub         float64 `json:"salary_rub" validate:"required,gt=0"`
	Position          string  `json:"position" validate:"required"`
	ContractStartDate string  `json:"contract_start_date" validate:"required"`
	ContractNumber    string  `json:"contract_number" validate:"required"`
}

// PayloadExport selects workbook templates and names the fixed output file set
type PayloadExport struct {
	ContractTemplate  string             `json:"contract_template" validate:"required"`
	BankTemplate      string             `json:"bank_template" validate:"required"`
	InsuranceTemplate string             `json:"insurance_template" validate:"required"`
	SalaryTemplate    string             `json:"salary_template" validate:"required"`
	OutputFiles       PayloadOutputFiles `json:"output_files"`
}

// PayloadOutputFiles maps document types to the file names the renderer
// must produce in its output directory
type PayloadOutputFiles struct {
	Contract  string `json:"contract" validate:"required"`
	Bank      string `json:"bank" validate:"required"`
	Insurance string `json:"insurance" validate:"required"`
	Salary    string `json:"salary" validate:"required"`
}

// Validate validates the RendererPayload before it crosses the boundary
func (p *RendererPayload) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// DefaultOutputFiles is the fixed artifact set every render produces
func DefaultOutputFiles() PayloadOutputFiles {
	return PayloadOutputFiles{
		Contract:  "Contract.pdf",
		Bank:      "Bank_Statement_6m.pdf",
		Insurance: "Insurance.pdf",
		Salary:    "Salary_Certificate.pdf",
	}
}

// SalaryTemplate is the workbook sheet used for salary certificates
const SalaryTemplate = "Salary упрошенная"

// CurrencySymbol returns the symbol the renderer prints for amounts
func CurrencySymbol(currency string) string {
	switch currency {
	case "USD":
		return "$"
	case "AED":
		return "AED"
	default:
		return "$"
	}
}

// BankTemplateFor picks the bank statement workbook sheet by currency
func BankTemplateFor(currency string) string {
	if currency == "USD" {
		return "т-банк 2 (6 мес) $"
	}
	return "т-банк 2 (6 мес)"
}

package db

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

// PackageStatus reflects the outcome of a package's latest job only
type PackageStatus string

const (
	PackageStatusCreated   PackageStatus = "created"
	PackageStatusGenerated PackageStatus = "generated"
	PackageStatusError     PackageStatus = "error"
)

// FxSource identifies where a package's FX rate came from
type FxSource string

const (
	FxSourceManual FxSource = "manual"
	FxSourceCBR    FxSource = "cbr"
)

// Currency is a supported contract currency
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyAED Currency = "AED"
)

// ParseCurrency converts a string to a Currency
func ParseCurrency(s string) (Currency, error) {
	switch Currency(s) {
	case CurrencyUSD, CurrencyAED:
		return Currency(s), nil
	default:
		return "", fmt.Errorf("invalid currency: %q", s)
	}
}

// ParseFxSource converts a string to an FxSource
func ParseFxSource(s string) (FxSource, error) {
	switch FxSource(s) {
	case FxSourceManual, FxSourceCBR:
		return FxSource(s), nil
	default:
		return "", fmt.Errorf("invalid fx source: %q", s)
	}
}

// Package represents one client+company generation engagement
type Package struct {
	ID             uuid.UUID     `json:"id"`
	Status         PackageStatus `json:"status"`
	ClientID       uuid.UUID     `json:"client_id"`
	CompanyID      uuid.UUID     `json:"company_id"`
	Currency       Currency      `json:"currency"`
	FxSource       FxSource      `json:"fx_source"`
	FxRate         float64       `json:"fx_rate"`
	SalaryRub      float64       `json:"salary_rub"`
	Position       string        `json:"position"`
	StartDate      time.Time     `json:"start_date"`
	ContractStart  time.Time     `json:"contract_start_date"`
	ContractNumber string        `json:"contract_number"`
	ContractTmpl   string        `json:"contract_template"`
	InsuranceTmpl  string        `json:"insurance_template"`
	CountryDisplay string        `json:"country_display"`
	Address        string        `json:"address"`
	VersionCounter int           `json:"version_counter"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PackageCreateInput holds everything needed to open a new engagement.
// Version counter and status are not caller-controlled.
type PackageCreateInput struct {
	ClientID       uuid.UUID
	CompanyID      uuid.UUID
	Currency       Currency
	FxSource       FxSource
	FxRate         float64
	SalaryRub      float64
	Position       string
	StartDate      time.Time
	ContractStart  time.Time
	ContractNumber string
	ContractTmpl   string
	InsuranceTmpl  string
	CountryDisplay string
	Address        string
}

// ContractNumberAttempts bounds the uniqueness retry loop of the allocator
const ContractNumberAttempts = 15

// GenerateContractNumber produces a candidate contract identifier of the
// form NNNNNN/year with a cryptographically strong 6-digit component
func GenerateContractNumber(year int) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate contract number: %w", err)
	}
	return fmt.Sprintf("%06d/%d", n.Int64()+100000, year), nil
}

// RandomStartDateWithinLastSixMonths returns a date up to 180 days before today
func RandomStartDateWithinLastSixMonths(today time.Time) (time.Time, error) {
	delta, err := rand.Int(rand.Reader, big.NewInt(181))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to pick start date: %w", err)
	}
	year, month, day := today.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	return midnight.AddDate(0, 0, -int(delta.Int64())), nil
}

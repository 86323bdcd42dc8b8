package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/passport"
	"github.com/dkovalev/visa-backend/internal/storage"
	"github.com/dkovalev/visa-backend/internal/types"
)

// defaultAddress is the placeholder used when a request omits the address
const defaultAddress = "RUSSIA, Moscow, 119087, Akademik Tupolev str.14 apt.430"

// dateLayout is the wire format for dates
const dateLayout = "2006-01-02"

// handleGeneratePackage creates a package with its first job and queues the
// generation for an asynchronous worker
func (s *Server) handleGeneratePackage(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()

	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid company ID format")
		return
	}
	company, err := s.db.GetCompanyByID(ctx, companyID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if company == nil {
		s.errorResponse(w, http.StatusBadRequest, "company_id not found")
		return
	}

	dob, err := time.Parse(dateLayout, req.Client.DOB)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid dob format")
		return
	}

	mrz := req.Client.MRZ()
	issuing := req.Client.IssuingCountry
	if issuing == "" && mrz != "" {
		issuing = passport.IssuingCountryFromMRZ(mrz)
	}
	countryDisplay := passport.CountryDisplay(issuing)

	address := req.Address
	if address == "" {
		address = defaultAddress
	}

	// FX rate: manual value or an external fetch with its own timeout.
	// A fetch failure is reported to the caller, not retried.
	var fxRate float64
	if req.FxSource == string(db.FxSourceManual) {
		fxRate = *req.FxRate
	} else {
		fxRate, err = s.fx.Rate(ctx, req.Currency)
		if err != nil {
			s.writeError(w, err)
			return
		}
	}

	client, err := s.db.UpsertClient(ctx, db.ClientUpsertInput{
		FullName:       req.Client.FullName,
		PassportNo:     req.Client.PassportNo,
		DOB:            dob,
		MRZ:            nilIfEmpty(mrz),
		IssuingCountry: nilIfEmpty(issuing),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	startDate, err := db.RandomStartDateWithinLastSixMonths(time.Now())
	if err != nil {
		s.writeError(w, err)
		return
	}

	contractNumber, err := s.db.AllocateContractNumber(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pkg, job, err := s.db.CreatePackageWithJob(ctx, db.PackageCreateInput{
		ClientID:       client.ID,
		CompanyID:      company.ID,
		Currency:       db.Currency(req.Currency),
		FxSource:       db.FxSource(req.FxSource),
		FxRate:         fxRate,
		SalaryRub:      req.SalaryRub,
		Position:       req.Position,
		StartDate:      startDate,
		ContractStart:  startDate,
		ContractNumber: contractNumber,
		ContractTmpl:   req.ContractTemplate,
		InsuranceTmpl:  req.InsuranceTemplate,
		CountryDisplay: countryDisplay,
		Address:        address,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.GenerateResponse{
		JobID:     job.ID.String(),
		PackageID: pkg.ID.String(),
	})
}

// handleRegeneratePackage allocates the next version and queues a new job
func (s *Server) handleRegeneratePackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	job, err := s.db.RegeneratePackage(r.Context(), packageID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.RegenerateResponse{
		JobID:     job.ID.String(),
		PackageID: packageID.String(),
		Version:   job.Version,
	})
}

// handleGetPackage returns a package summary with its ordered document list.
// Presigned URLs are best effort: a signer failure yields a null URL, never
// a failed response.
func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	ctx := r.Context()
	pkg, err := s.db.GetPackageByID(ctx, packageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if pkg == nil {
		s.errorResponse(w, http.StatusNotFound, "Package not found")
		return
	}

	client, err := s.db.GetClientByID(ctx, pkg.ClientID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	company, err := s.db.GetCompanyByID(ctx, pkg.CompanyID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	docs, err := s.db.ListDocumentsByPackage(ctx, packageID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	docsOut := make([]types.PackageDocument, 0, len(docs))
	for _, d := range docs {
		var presigned *string
		if s.presigner != nil {
			if u, pErr := s.presigner.PresignedGetURL(ctx, d.StorageKey, storage.DefaultPresignExpiry); pErr != nil {
				log.Printf("presign failed for document %s: %v", d.ID, pErr)
			} else {
				presigned = &u
			}
		}
		docsOut = append(docsOut, types.PackageDocument{
			DocType:      displayDocType(d.DocType),
			Version:      d.Version,
			Filename:     d.Filename,
			FileKey:      d.StorageKey,
			ContentType:  d.ContentType,
			CreatedAt:    d.CreatedAt.Format(time.RFC3339),
			PresignedURL: presigned,
		})
	}

	resp := types.PackageResponse{
		PackageID:      pkg.ID.String(),
		Status:         displayPackageStatus(pkg.Status),
		VersionCounter: pkg.VersionCounter,
		ContractNumber: pkg.ContractNumber,
		Currency:       string(pkg.Currency),
		FxSource:       string(pkg.FxSource),
		FxRate:         pkg.FxRate,
		SalaryRub:      pkg.SalaryRub,
		Position:       pkg.Position,
		Company: types.PackageCompany{
			CompanyID: pkg.CompanyID.String(),
			Name:      pkg.CompanyID.String(),
		},
		Documents: docsOut,
	}
	if company != nil {
		resp.Company.Name = company.Name
	}
	if client != nil {
		resp.Client = types.PackageClient{
			ClientID:       client.ID.String(),
			FullName:       client.FullName,
			PassportMasked: passport.Mask(client.PassportNo),
			DOB:            client.DOB.Format(dateLayout),
			IssuingCountry: client.IssuingCountry,
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleDownloadBundle returns a presigned URL for the latest bundle ZIP
func (s *Server) handleDownloadBundle(w http.ResponseWriter, r *http.Request) {
	packageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid package ID format")
		return
	}

	bundle, err := s.db.GetLatestBundle(r.Context(), packageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if bundle == nil {
		s.errorResponse(w, http.StatusNotFound, "Bundle not found")
		return
	}
	if s.presigner == nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	u, err := s.presigner.PresignedGetURL(r.Context(), bundle.StorageKey, storage.DefaultPresignExpiry)
	if err != nil {
		log.Printf("presign failed for bundle %s: %v", bundle.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.jsonResponse(w, http.StatusOK, types.DownloadResponse{URL: u})
}

// handlePresignFile signs an arbitrary storage key
func (s *Server) handlePresignFile(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		s.errorResponse(w, http.StatusBadRequest, "key is required")
		return
	}
	if s.presigner == nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	u, err := s.presigner.PresignedGetURL(r.Context(), key, storage.DefaultPresignExpiry)
	if err != nil {
		log.Printf("presign failed for key: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.jsonResponse(w, http.StatusOK, types.DownloadResponse{URL: u})
}

// displayPackageStatus maps the stored status to its caller-facing name
func displayPackageStatus(status db.PackageStatus) string {
	switch status {
	case db.PackageStatusCreated:
		return "draft"
	case db.PackageStatusGenerated:
		return "generated"
	default:
		return "error"
	}
}

// displayDocType maps stored document types to their caller-facing names
func displayDocType(t db.DocumentType) string {
	switch t {
	case db.DocumentTypeBank:
		return "bank_statement"
	case db.DocumentTypeContract, db.DocumentTypeInsurance, db.DocumentTypeSalary, db.DocumentTypeBundle:
		return string(t)
	default:
		return "other"
	}
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

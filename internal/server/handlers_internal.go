package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/types"
)

// handleJobPayload returns the typed renderer input bundle for a job. The
// payload is validated before it leaves the boundary; an invalid bundle is
// an internal defect, not a worker problem.
func (s *Server) handleJobPayload(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	ctx := r.Context()
	job, err := s.db.GetJobByID(ctx, jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	pkg, err := s.db.GetPackageByID(ctx, job.PackageID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if pkg == nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
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
	if client == nil || company == nil {
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	payload := types.RendererPayload{
		JobID:       job.ID.String(),
		PackageID:   pkg.ID.String(),
		TemplateKey: s.templateKey,
		Company: types.PayloadCompany{
			CompanyID: company.ID.String(),
			Name:      company.Name,
			Assets: types.PayloadAssets{
				LogoKey:         company.LogoKey,
				SealKey:         company.SealKey,
				DirectorSignKey: company.DirectorSignKey,
				ClientSignKey:   company.ClientSignKey,
			},
		},
		Client: types.PayloadClient{
			FullName:       client.FullName,
			PassportNo:     client.PassportNo,
			DOB:            client.DOB.Format(dateLayout),
			Address:        pkg.Address,
			CountryDisplay: pkg.CountryDisplay,
		},
		Job: types.PayloadJob{
			Version:           job.Version,
			CurrencySymbol:    types.CurrencySymbol(string(pkg.Currency)),
			FxRate:            pkg.FxRate,
			SalaryRub:         pkg.SalaryRub,
			Position:          pkg.Position,
			ContractStartDate: pkg.ContractStart.Format(dateLayout),
			ContractNumber:    pkg.ContractNumber,
		},
		Export: types.PayloadExport{
			ContractTemplate:  pkg.ContractTmpl,
			BankTemplate:      types.BankTemplateFor(string(pkg.Currency)),
			InsuranceTemplate: pkg.InsuranceTmpl,
			SalaryTemplate:    types.SalaryTemplate,
			OutputFiles:       types.DefaultOutputFiles(),
		},
	}

	if err := payload.Validate(); err != nil {
		log.Printf("renderer payload for job %s failed validation: %v", job.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.jsonResponse(w, http.StatusOK, payload)
}

// handleJobStart transitions a job from queued to running. A duplicate
// delivery of an already-started job lands here and gets a conflict.
func (s *Server) handleJobStart(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.db.StartJob(r.Context(), jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"job_id": job.ID.String(),
	})
}

// handleJobComplete records produced artifacts and finishes the job
func (s *Server) handleJobComplete(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var req types.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	files := make([]db.DocumentInput, 0, len(req.Files))
	for _, f := range req.Files {
		docType, err := db.ParseDocumentType(f.DocType)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		files = append(files, db.DocumentInput{
			DocType:     docType,
			Filename:    f.Filename,
			StorageKey:  f.StorageKey,
			ContentType: f.ContentType,
			Version:     f.Version,
		})
	}

	job, err := s.db.CompleteJob(r.Context(), jobID, files)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"job_id":     job.ID.String(),
		"package_id": job.PackageID.String(),
	})
}

// handleJobFail records a worker failure. The reason is reduced and
// truncated before it is persisted.
func (s *Server) handleJobFail(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	var req types.FailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.db.FailJob(r.Context(), jobID, req.ErrorMessage)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status": "ok",
		"job_id": job.ID.String(),
	})
}

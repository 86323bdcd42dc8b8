package server

import (
	"encoding/json"
	"net/http"

	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/types"
)

// handleListCompanies returns the public company picker list. Asset keys are
// internal-only and never exposed here.
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.db.ListCompanies(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]types.CompanyPublic, 0, len(companies))
	for _, c := range companies {
		out = append(out, types.CompanyPublic{
			CompanyID: c.ID.String(),
			Name:      c.Name,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleCreateCompany registers a new company with its renderer asset keys
func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req types.CompanyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	company, err := s.db.CreateCompany(r.Context(), db.CompanyCreateInput{
		Name:            req.Name,
		SealKey:         req.SealKey,
		LogoKey:         req.LogoKey,
		DirectorSignKey: req.DirectorSignKey,
		ClientSignKey:   req.ClientSignKey,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.CompanyResponse{
		CompanyID:       company.ID.String(),
		Name:            company.Name,
		SealKey:         company.SealKey,
		LogoKey:         company.LogoKey,
		DirectorSignKey: company.DirectorSignKey,
		ClientSignKey:   company.ClientSignKey,
	})
}

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/visa-backend/internal/passport"
	"github.com/dkovalev/visa-backend/internal/types"
)

// handleSearchClients returns recent clients, optionally filtered by name or
// passport substring. Passport numbers are always masked in listings.
func (s *Server) handleSearchClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	clients, err := s.db.SearchClients(r.Context(), query, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]types.ClientSearchItem, 0, len(clients))
	for _, c := range clients {
		out = append(out, types.ClientSearchItem{
			ClientID:       c.ID.String(),
			FullName:       c.FullName,
			PassportMasked: passport.Mask(c.PassportNo),
			DOB:            c.DOB.Format(dateLayout),
			IssuingCountry: c.IssuingCountry,
			CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleGetClient returns one client with masked passport
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	c, err := s.db.GetClientByID(r.Context(), clientID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	issuing := ""
	if c.IssuingCountry != nil {
		issuing = *c.IssuingCountry
	}
	s.jsonResponse(w, http.StatusOK, types.ClientDetail{
		ClientID:       c.ID.String(),
		FullName:       c.FullName,
		PassportMasked: passport.Mask(c.PassportNo),
		DOB:            c.DOB.Format(dateLayout),
		IssuingCountry: c.IssuingCountry,
		CountryDisplay: passport.CountryDisplay(issuing),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	})
}

// handleListClientPackages returns a client's packages, newest first
func (s *Server) handleListClientPackages(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	ctx := r.Context()
	c, err := s.db.GetClientByID(ctx, clientID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if c == nil {
		s.errorResponse(w, http.StatusNotFound, "Client not found")
		return
	}

	packages, err := s.db.ListPackagesByClient(ctx, clientID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// One company lookup per distinct company, not per package
	names := make(map[uuid.UUID]string)
	out := make([]types.ClientPackageItem, 0, len(packages))
	for _, p := range packages {
		name, ok := names[p.CompanyID]
		if !ok {
			company, err := s.db.GetCompanyByID(ctx, p.CompanyID)
			if err != nil {
				s.writeError(w, err)
				return
			}
			name = p.CompanyID.String()
			if company != nil {
				name = company.Name
			}
			names[p.CompanyID] = name
		}
		out = append(out, types.ClientPackageItem{
			PackageID:      p.ID.String(),
			Status:         displayPackageStatus(p.Status),
			VersionCounter: p.VersionCounter,
			Company: types.PackageCompany{
				CompanyID: p.CompanyID.String(),
				Name:      name,
			},
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
			UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

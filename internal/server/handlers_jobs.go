package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dkovalev/visa-backend/internal/types"
)

// handleGetJob returns the status of a generation attempt
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID format")
		return
	}

	job, err := s.db.GetJobByID(r.Context(), jobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, types.JobStatusResponse{
		JobID:        job.ID.String(),
		Status:       string(job.Status),
		ErrorMessage: job.ErrorMessage,
		StartedAt:    formatTimePtr(job.StartedAt),
		FinishedAt:   formatTimePtr(job.FinishedAt),
		Version:      job.Version,
	})
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dkovalev/visa-backend/internal/db"
	"github.com/dkovalev/visa-backend/internal/fxrate"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound        *db.ErrNotFound
		conflict        *db.ErrConflict
		versionMismatch *db.ErrVersionMismatch
		exhausted       *db.ErrAllocationExhausted
		integrity       *db.ErrIntegrity
		upstream        *fxrate.Error
		validation      validator.ValidationErrors
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &versionMismatch):
		return http.StatusBadRequest
	case errors.As(err, &exhausted):
		return http.StatusInternalServerError
	case errors.As(err, &integrity):
		return http.StatusInternalServerError
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps an error to a response. Integrity violations and unknown
// errors get a generic message so constraint names and driver details never
// reach callers.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		var exhausted *db.ErrAllocationExhausted
		if !errors.As(err, &exhausted) {
			message = "internal error"
		}
	}
	s.errorResponse(w, status, message)
}

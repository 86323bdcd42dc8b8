// Package server provides the HTTP REST API of the document-package
// orchestrator.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dkovalev/visa-backend/internal/db"
)

// RateSource resolves an external FX rate for a currency
type RateSource interface {
	Rate(ctx context.Context, currency string) (float64, error)
}

// Presigner signs time-limited download URLs for storage keys
type Presigner interface {
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Config holds server configuration
type Config struct {
	Port           int
	InternalAPIKey string
	TemplateKey    string
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	db             *db.DB
	fx             RateSource
	presigner      Presigner
	internalAPIKey string
	templateKey    string
}

// New creates a server around an already-connected ledger store. The store
// handle is passed in explicitly; the server owns no global state.
func New(cfg Config, database *db.DB, fx RateSource, presigner Presigner) *Server {
	s := &Server{
		db:             database,
		fx:             fx,
		presigner:      presigner,
		internalAPIKey: cfg.InternalAPIKey,
		templateKey:    cfg.TemplateKey,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Generation and package lifecycle
	mux.HandleFunc("POST /packages/generate", s.handleGeneratePackage)
	mux.HandleFunc("POST /packages/{id}/regenerate", s.handleRegeneratePackage)
	mux.HandleFunc("GET /packages/{id}", s.handleGetPackage)
	mux.HandleFunc("GET /packages/{id}/download", s.handleDownloadBundle)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)

	// Read-only directory endpoints
	mux.HandleFunc("GET /companies", s.handleListCompanies)
	mux.HandleFunc("GET /clients", s.handleSearchClients)
	mux.HandleFunc("GET /clients/{id}", s.handleGetClient)
	mux.HandleFunc("GET /clients/{id}/packages", s.handleListClientPackages)
	mux.HandleFunc("GET /files/presign", s.handlePresignFile)

	// Worker-facing endpoints, gated by the shared internal key
	mux.Handle("GET /internal/jobs/{id}/payload", s.withInternalAuth(s.handleJobPayload))
	mux.Handle("POST /internal/jobs/{id}/start", s.withInternalAuth(s.handleJobStart))
	mux.Handle("POST /internal/jobs/{id}/complete", s.withInternalAuth(s.handleJobComplete))
	mux.Handle("POST /internal/jobs/{id}/fail", s.withInternalAuth(s.handleJobFail))
	mux.Handle("POST /internal/companies", s.withInternalAuth(s.handleCreateCompany))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Internal-Api-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging. Paths only, never payloads: request
// bodies carry identity documents.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withInternalAuth rejects requests without the shared internal key before
// any business logic runs
func (s *Server) withInternalAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Internal-Api-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(s.internalAPIKey)) != 1 {
			s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

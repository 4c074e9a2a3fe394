package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/attestia/zkattest/certificate"
	"github.com/attestia/zkattest/field"
	"github.com/attestia/zkattest/history"
	"github.com/attestia/zkattest/models"
	"github.com/attestia/zkattest/prover"
	"github.com/attestia/zkattest/verify"
)

// defaultConfidence stands in when the caller does not report an
// extraction confidence.
const defaultConfidence = 0.99

// Server handles the HTTP surface of the verification service.
type Server struct {
	verifier *verify.Verifier
	registry *prover.CircuitRegistry // nil when proving runs on the stub
	circuits map[string]prover.CircuitInfo
	validate *validator.Validate
	timeout  time.Duration
	log      *slog.Logger
}

// Config wires a Server.
type Config struct {
	Verifier *verify.Verifier
	Registry *prover.CircuitRegistry
	Circuits map[string]prover.CircuitInfo
	// ProveTimeout bounds one verification end to end.
	ProveTimeout time.Duration
	Log          *slog.Logger
}

// NewServer creates the HTTP server around a wired verifier.
func NewServer(cfg Config) *Server {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		verifier: cfg.Verifier,
		registry: cfg.Registry,
		circuits: cfg.Circuits,
		validate: validator.New(),
		timeout:  cfg.ProveTimeout,
		log:      log,
	}
}

// ==== Request/Response Types ====

// VerifyDocumentRequest carries one verification: the query, the value
// extracted for it upstream, and the document fields.
type VerifyDocumentRequest struct {
	Query          string               `json:"query" validate:"required"`
	ExtractedValue string               `json:"extracted_value"`
	Confidence     float64              `json:"confidence" validate:"gte=0,lte=1"`
	Document       models.DocumentInput `json:"document" validate:"required"`
}

// VerifyDocumentResponse is the outcome, with the certificate attached
// when requested.
type VerifyDocumentResponse struct {
	Outcome     verify.Outcome           `json:"outcome"`
	Certificate *certificate.Certificate `json:"certificate,omitempty"`
}

// RevokeRequest names the document fingerprint to revoke, as the
// decimal string verifications report it.
type RevokeRequest struct {
	DocumentHash string `json:"document_hash" validate:"required"`
}

// RevokeResponse confirms a revocation.
type RevokeResponse struct {
	DocumentHash   string `json:"document_hash"`
	RevocationRoot string `json:"revocation_root"`
	RevokedAt      int64  `json:"revoked_at"`
}

// RevocationStatusResponse is one fingerprint's standing.
type RevocationStatusResponse struct {
	DocumentHash   string `json:"document_hash"`
	IsRevoked      bool   `json:"is_revoked"`
	RevokedAt      int64  `json:"revoked_at,omitempty"`
	RevocationRoot string `json:"revocation_root"`
}

// HistoryResponse lists recorded verification attempts.
type HistoryResponse struct {
	Records []history.Record `json:"records"`
	Count   int              `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CircuitInfoResponse represents circuit information
type CircuitInfoResponse struct {
	Name        string `json:"name"`
	Version     uint   `json:"version"`
	Kind        string `json:"kind"`
	Description string `json:"description,omitempty"`
	Loaded      bool   `json:"loaded"`
}

// CircuitListResponse represents a list of circuits
type CircuitListResponse struct {
	Circuits []CircuitInfoResponse `json:"circuits"`
	Count    int                   `json:"count"`
}

// ==== Handlers ====

// HandleHealth handles health check requests
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// HandleVerify runs one verification and returns the outcome. With
// ?certificate=true the response carries the rendered certificate.
func (s *Server) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req VerifyDocumentRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	outcome := s.verifier.Verify(ctx, verify.Request{
		Query:          req.Query,
		ExtractedValue: req.ExtractedValue,
		Document:       req.Document,
	})

	resp := VerifyDocumentResponse{Outcome: outcome}
	if outcome.Success && r.URL.Query().Get("certificate") == "true" {
		confidence := req.Confidence
		if confidence == 0 {
			confidence = defaultConfidence
		}
		fingerprint, err := field.FromDecimalString(outcome.DocumentFingerprint)
		if err == nil {
			records := s.verifier.DocumentHistory(fingerprint)
			cert := certificate.Build(verify.Request{Query: req.Query, Document: req.Document}, outcome, records, confidence, time.Now())
			resp.Certificate = &cert
		}
	}

	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, resp)
}

// HandleRevoke marks a document fingerprint revoked.
func (s *Server) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	var req RevokeRequest
	if !s.decode(w, r, &req) {
		return
	}

	fingerprint, err := field.FromDecimalString(req.DocumentHash)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_fingerprint",
			fmt.Sprintf("document_hash is not a valid field element: %v", err))
		return
	}

	if err := s.verifier.Revoke(fingerprint); err != nil {
		respondError(w, http.StatusInternalServerError, "revocation_failed",
			fmt.Sprintf("failed to revoke: %v", err))
		return
	}
	_, revokedAt := s.verifier.RevocationStatus(fingerprint)

	s.log.Info("document revoked", "document_fingerprint", req.DocumentHash)
	root := s.verifier.RevocationRoot()
	respondJSON(w, http.StatusAccepted, RevokeResponse{
		DocumentHash:   req.DocumentHash,
		RevocationRoot: root.String(),
		RevokedAt:      revokedAt,
	})
}

// HandleRevocationRoot returns the current registry root.
func (s *Server) HandleRevocationRoot(w http.ResponseWriter, r *http.Request) {
	root := s.verifier.RevocationRoot()
	respondJSON(w, http.StatusOK, map[string]string{
		"revocation_root": root.String(),
	})
}

// HandleRevocationStatus returns one fingerprint's standing.
func (s *Server) HandleRevocationStatus(w http.ResponseWriter, r *http.Request) {
	fingerprint, ok := s.fingerprintParam(w, r)
	if !ok {
		return
	}
	revoked, at := s.verifier.RevocationStatus(fingerprint)
	root := s.verifier.RevocationRoot()
	respondJSON(w, http.StatusOK, RevocationStatusResponse{
		DocumentHash:   fingerprint.String(),
		IsRevoked:      revoked,
		RevokedAt:      at,
		RevocationRoot: root.String(),
	})
}

// HandleDocumentHistory lists the attempts recorded for a document.
func (s *Server) HandleDocumentHistory(w http.ResponseWriter, r *http.Request) {
	fingerprint, ok := s.fingerprintParam(w, r)
	if !ok {
		return
	}
	records := s.verifier.DocumentHistory(fingerprint)
	respondJSON(w, http.StatusOK, HistoryResponse{Records: records, Count: len(records)})
}

// HandleClaimHistory lists the attempts recorded for a claim.
func (s *Server) HandleClaimHistory(w http.ResponseWriter, r *http.Request) {
	fingerprint, ok := s.fingerprintParam(w, r)
	if !ok {
		return
	}
	records := s.verifier.ClaimHistory(fingerprint)
	respondJSON(w, http.StatusOK, HistoryResponse{Records: records, Count: len(records)})
}

// HandleListCircuits lists all available circuits
func (s *Server) HandleListCircuits(w http.ResponseWriter, r *http.Request) {
	circuits := make([]CircuitInfoResponse, 0)

	for name, info := range s.circuits {
		circuits = append(circuits, CircuitInfoResponse{
			Name:        info.Name,
			Version:     info.Version,
			Kind:        string(info.Kind),
			Description: info.Description,
			Loaded:      s.circuitLoaded(name),
		})
	}

	respondJSON(w, http.StatusOK, CircuitListResponse{
		Circuits: circuits,
		Count:    len(circuits),
	})
}

// HandleGetCircuit gets information about a specific circuit
func (s *Server) HandleGetCircuit(w http.ResponseWriter, r *http.Request) {
	circuitName := chi.URLParam(r, "circuit")

	info, ok := s.circuits[circuitName]
	if !ok {
		respondError(w, http.StatusNotFound, "circuit_not_found",
			fmt.Sprintf("circuit '%s' not found", circuitName))
		return
	}

	respondJSON(w, http.StatusOK, CircuitInfoResponse{
		Name:        info.Name,
		Version:     info.Version,
		Kind:        string(info.Kind),
		Description: info.Description,
		Loaded:      s.circuitLoaded(circuitName),
	})
}

// ==== Helper Functions ====

func (s *Server) circuitLoaded(name string) bool {
	if s.registry == nil {
		return false
	}
	_, loaded := s.registry.Circuits[name]
	return loaded
}

// decode reads, parses and validates a JSON request body. It writes
// the error response itself and reports whether to continue.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request",
			"failed to read request body")
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json",
			fmt.Sprintf("failed to parse request: %v", err))
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed",
			fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

// fingerprintParam parses the {hash} route parameter as a decimal
// field element.
func (s *Server) fingerprintParam(w http.ResponseWriter, r *http.Request) (field.Element, bool) {
	raw := chi.URLParam(r, "hash")
	fingerprint, err := field.FromDecimalString(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_fingerprint",
			fmt.Sprintf("hash is not a valid field element: %v", err))
		return field.Element{}, false
	}
	return fingerprint, true
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error:     message,
		Code:      code,
		Timestamp: time.Now(),
	})
}

// Package httpapi exposes the scenario engine over a small JSON HTTP surface,
// intended to sit behind the platform's gateway.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/sprintpilot/internal/contract"
)

// Server routes HTTP requests to the engine use cases.
type Server struct {
	preview  contract.PreviewUseCase
	scenario contract.ScenarioSetUseCase
	apply    contract.ApplyUseCase
	logger   *slog.Logger
}

func NewServer(
	preview contract.PreviewUseCase,
	scenario contract.ScenarioSetUseCase,
	apply contract.ApplyUseCase,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{preview: preview, scenario: scenario, apply: apply, logger: logger}
}

// Handler returns the routed handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sprints/{id}/autopilot/preview", s.handlePreview)
	mux.HandleFunc("POST /api/sprints/{id}/autopilot/apply", s.handleApplyPlan)
	mux.HandleFunc("GET /api/sprints/{id}/scenarios", s.handleScenarioSet)
	mux.HandleFunc("POST /api/sprints/{id}/scenarios/apply", s.handleApplyScenario)
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var engineErr *contract.EngineError
	if errors.As(err, &engineErr) {
		s.writeJSON(w, statusForCode(engineErr.Code), map[string]any{"error": engineErr})
		return
	}
	s.logger.Error("unhandled error", "error", err)
	s.writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": &contract.EngineError{Code: contract.ErrInternal, Message: "internal error"},
	})
}

func statusForCode(code contract.EngineErrorCode) int {
	switch code {
	case contract.ErrNotFound:
		return http.StatusNotFound
	case contract.ErrForbidden:
		return http.StatusForbidden
	case contract.ErrValidation:
		return http.StatusBadRequest
	case contract.ErrPolicyViolation, contract.ErrNoEligibleScenario:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

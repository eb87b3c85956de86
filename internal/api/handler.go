// Package api implements the readmit REST API.
// It serves patient risk views, reports, PDF exports and the cohort impact
// from the current analysis session.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Handler is the top-level API handler for the readmit service.
type Handler struct {
	svc    *pipeline.Service
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *pipeline.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/patients", h.handleListPatients)
	mux.HandleFunc("GET /api/patients/{id}", h.handleGetPatient)
	mux.HandleFunc("GET /api/patients/{id}/report", h.handleReport)
	mux.HandleFunc("GET /api/patients/{id}/report.pdf", h.handleReportPDF)
	mux.HandleFunc("GET /api/patients/{id}/explanation", h.handleExplanation)
	mux.HandleFunc("GET /api/patients/{id}/exports", h.handleListExports)
	mux.HandleFunc("GET /api/exports/{exportID}/pdf", h.handleArchivedPDF)
	mux.HandleFunc("GET /api/impact", h.handleImpact)
	mux.HandleFunc("GET /api/cohort.xlsx", h.handleCohort)
}

// session returns the current analysis session, writing a 500 on failure.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*pipeline.Session, bool) {
	sess, err := h.svc.Current(r.Context())
	if err != nil {
		h.logger.Error("analysis session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load admissions: "+err.Error())
		return nil, false
	}
	return sess, true
}

// writePatientError maps a per-patient failure to a status code.
func (h *Handler) writePatientError(w http.ResponseWriter, patientID string, err error) {
	if errors.Is(err, admission.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "patient not found: "+patientID)
		return
	}
	h.logger.Error("patient request failed", zap.String("patient_id", patientID), zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package api

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/archive"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/export"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/storage"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
)

type patientSummary struct {
	PatientID   string                `json:"patient_id"`
	Name        string                `json:"name"`
	RiskScore   float64               `json:"risk_score"`
	RiskLevel   admission.RiskLevel   `json:"risk_level"`
	ReadmitProb float64               `json:"readmit_prob"`
	ReadmitFlag admission.ReadmitFlag `json:"readmit_flag"`
}

func (h *Handler) handleListPatients(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	patients := make([]patientSummary, 0, sess.Table.Len())
	for _, rec := range sess.Table.Records {
		patients = append(patients, patientSummary{
			PatientID:   rec.PatientID,
			Name:        rec.Name,
			RiskScore:   rec.RiskScore,
			RiskLevel:   rec.RiskLevel,
			ReadmitProb: rec.ReadmitProb,
			ReadmitFlag: rec.ReadmitFlag,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *Handler) handleGetPatient(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := h.svc.View(r.Context(), sess, patientID)
	if err != nil {
		h.writePatientError(w, patientID, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatText
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	data, err := h.svc.Report(r.Context(), sess, patientID, format)
	if errors.Is(err, pipeline.ErrUnknownFormat) {
		writeError(w, http.StatusBadRequest, "format must be text or json")
		return
	}
	if err != nil {
		h.writePatientError(w, patientID, err)
		return
	}

	if format == pipeline.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	out, err := h.svc.ExportPDF(r.Context(), sess, patientID)
	if err != nil {
		h.writePatientError(w, patientID, err)
		return
	}
	w.Header().Set("X-Export-ID", out.ID)
	writePDF(w, out)
}

func (h *Handler) handleExplanation(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	ex, err := h.svc.Explain(r.Context(), sess, patientID)
	if errors.Is(err, explain.ErrUnavailable) {
		breakdown, bErr := h.svc.Breakdown(sess, patientID)
		if bErr != nil {
			h.writePatientError(w, patientID, bErr)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":              "unavailable",
			"composite_breakdown": breakdown,
		})
		return
	}
	if err != nil {
		h.writePatientError(w, patientID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"explanation": ex,
	})
}

func (h *Handler) handleListExports(w http.ResponseWriter, r *http.Request) {
	patientID := r.PathValue("id")
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	exports, err := h.svc.Exports(r.Context(), patientID, limit)
	if errors.Is(err, pipeline.ErrArchiveDisabled) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("list exports failed", zap.String("patient_id", patientID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}
	if exports == nil {
		exports = []archive.Export{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"exports": exports})
}

func (h *Handler) handleArchivedPDF(w http.ResponseWriter, r *http.Request) {
	exportID := r.PathValue("exportID")

	out, err := h.svc.ArchivedPDF(r.Context(), exportID)
	switch {
	case errors.Is(err, pipeline.ErrArchiveDisabled),
		errors.Is(err, archive.ErrNotFound),
		errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "export not found")
		return
	case err != nil:
		h.logger.Error("fetch archived pdf failed", zap.String("export_id", exportID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch export")
		return
	}
	writePDF(w, out)
}

func (h *Handler) handleImpact(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"impact":             sess.Impact,
		"probability_source": sess.Prediction.Source,
		"fallback_reason":    sess.Prediction.Reason(),
		"model_status":       sess.ModelStatus,
		"analyzed_at":        sess.AnalyzedAt,
	})
}

func (h *Handler) handleCohort(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := export.WriteXLSX(&buf, export.Cohort{
		Records:  sess.Table.Records,
		Impact:   sess.Impact,
		Degraded: sess.Degraded(),
	})
	if err != nil {
		h.logger.Error("cohort export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="cohort.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writePDF(w http.ResponseWriter, out *pipeline.PDFExport) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

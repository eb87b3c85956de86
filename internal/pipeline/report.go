package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/archive"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/metrics"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/scoring"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/surface"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// ErrUnknownFormat is returned for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// Report renders the structured report for one patient as text or JSON.
// Rendered output is served from the narrative cache when one is configured.
func (s *Service) Report(ctx context.Context, sess *Session, patientID, format string) ([]byte, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatJSON {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	rec, err := sess.Patient(patientID)
	if err != nil {
		return nil, err
	}

	render := func() ([]byte, error) {
		rep := report.Synthesize(rec)
		if format == FormatJSON {
			return rep.MarshalJSON()
		}
		return []byte(report.RenderText(rep)), nil
	}

	var data []byte
	if s.cache != nil && sess.AnalysisID != "" {
		data, _, err = s.cache.GetOrRender(ctx, sess.AnalysisID, patientID, format, render)
	} else {
		data, err = render()
	}
	if err != nil {
		return nil, fmt.Errorf("render report for %s: %w", patientID, err)
	}
	metrics.RecordReport(format)
	return data, nil
}

// Explain attributes one patient's features with the configured explainer.
// It returns explain.ErrUnavailable when no explainer can serve the request
// and admission.ErrRecordNotFound for unknown patients.
func (s *Service) Explain(ctx context.Context, sess *Session, patientID string) (*explain.Explanation, error) {
	ex, err := explain.Explain(ctx, s.explainer, patientID, sess.Table)
	switch {
	case err == nil:
		metrics.RecordExplanation("ok")
		return ex, nil
	case errors.Is(err, admission.ErrRecordNotFound):
		return nil, err
	case errors.Is(err, explain.ErrUnavailable):
		metrics.RecordExplanation("unavailable")
		return nil, err
	default:
		metrics.RecordExplanation("error")
		s.logger.Warn("explanation failed", zap.String("patient_id", patientID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", explain.ErrUnavailable, err)
	}
}

// Breakdown returns the composite score's per-feature terms for a patient.
// It is shown in place of model attributions when no explainer is available.
func (s *Service) Breakdown(sess *Session, patientID string) ([]scoring.Contribution, error) {
	rec, err := sess.Patient(patientID)
	if err != nil {
		return nil, err
	}
	return s.scorer.Breakdown(rec), nil
}

// View assembles everything shown for one selected patient.
func (s *Service) View(ctx context.Context, sess *Session, patientID string) (*surface.PatientView, error) {
	rec, err := sess.Patient(patientID)
	if err != nil {
		return nil, err
	}
	view := &surface.PatientView{
		Record:      rec,
		Report:      report.Synthesize(rec),
		Impact:      sess.Impact,
		ModelStatus: sess.ModelStatus,
		Degraded:    sess.Degraded(),
	}
	ex, err := s.Explain(ctx, sess, patientID)
	if err != nil && !errors.Is(err, explain.ErrUnavailable) {
		return nil, err
	}
	view.Explanation = ex
	return view, nil
}

// PDFExport is a rendered patient PDF.
type PDFExport struct {
	ID       string
	FileName string
	Data     []byte
	// StorageKey is empty when the PDF was not archived.
	StorageKey string
}

// ExportPDF renders the patient PDF with the text report as narrative and,
// when archiving is configured, stores it and records it in the ledger.
// Archive failures are logged and never fail the export.
func (s *Service) ExportPDF(ctx context.Context, sess *Session, patientID string) (*PDFExport, error) {
	rec, err := sess.Patient(patientID)
	if err != nil {
		return nil, err
	}
	narrative, err := s.Report(ctx, sess, patientID, FormatText)
	if err != nil {
		return nil, err
	}
	data, err := report.RenderPDF(rec, string(narrative))
	if err != nil {
		return nil, fmt.Errorf("export pdf for %s: %w", patientID, err)
	}
	metrics.RecordReport(FormatPDF)

	out := &PDFExport{
		ID:       archive.NewExportID(),
		FileName: report.PDFFileName(rec),
		Data:     data,
	}
	if s.store == nil {
		return out, nil
	}

	key, err := s.store.PutReport(ctx, rec.PatientID, out.ID, data)
	if err != nil {
		s.logger.Warn("archiving pdf failed", zap.String("patient_id", rec.PatientID), zap.Error(err))
		return out, nil
	}
	out.StorageKey = key

	if s.ledger != nil {
		err := s.ledger.Record(ctx, &archive.Export{
			ID:          out.ID,
			PatientID:   rec.PatientID,
			FileName:    out.FileName,
			StorageKey:  key,
			RiskScore:   rec.RiskScore,
			RiskLevel:   string(rec.RiskLevel),
			ReadmitProb: rec.ReadmitProb,
			ReadmitFlag: string(rec.ReadmitFlag),
			ProbSource:  string(sess.Prediction.Source),
			SizeBytes:   int64(len(data)),
		})
		if err != nil {
			s.logger.Warn("recording pdf export failed", zap.String("export_id", out.ID), zap.Error(err))
		}
	}
	s.logger.Info("pdf archived",
		zap.String("patient_id", rec.PatientID),
		zap.String("export_id", out.ID),
		zap.String("key", key),
	)
	return out, nil
}

// ErrArchiveDisabled is returned when export history is requested but no
// ledger or blob store is configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

// Exports lists archived PDFs for a patient, newest first.
func (s *Service) Exports(ctx context.Context, patientID string, limit int) ([]archive.Export, error) {
	if s.ledger == nil {
		return nil, ErrArchiveDisabled
	}
	return s.ledger.ListForPatient(ctx, patientID, limit)
}

// ArchivedPDF fetches a previously exported PDF by export ID.
func (s *Service) ArchivedPDF(ctx context.Context, exportID string) (*PDFExport, error) {
	if s.ledger == nil || s.store == nil {
		return nil, ErrArchiveDisabled
	}
	e, err := s.ledger.Get(ctx, exportID)
	if err != nil {
		return nil, err
	}
	data, err := s.store.GetReport(ctx, e.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch archived pdf %s: %w", exportID, err)
	}
	return &PDFExport{ID: e.ID, FileName: e.FileName, Data: data, StorageKey: e.StorageKey}, nil
}

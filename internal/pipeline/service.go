// Package pipeline runs a readmission analysis session: load the admissions
// table, score it, classify readmission risk, estimate impact, and serve
// per-patient reports, explanations and PDF exports from the result.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/archive"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/metrics"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/source"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/storage"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/readmission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/scoring"
)

// Model status lines shown next to the readmission alert.
const (
	StatusModelLoaded   = "model loaded"
	StatusModelNotFound = "model not found"
)

// Ledger records exported reports.
type Ledger interface {
	Record(ctx context.Context, e *archive.Export) error
	Get(ctx context.Context, id string) (*archive.Export, error)
	ListForPatient(ctx context.Context, patientID string, limit int) ([]archive.Export, error)
}

// NarrativeCache caches rendered reports per analysis.
type NarrativeCache interface {
	GetOrRender(ctx context.Context, analysisID, patientID, format string, render func() ([]byte, error)) ([]byte, bool, error)
}

// Options holds the optional collaborators of a Service. Nil members
// disable the feature they back.
type Options struct {
	Classifier readmission.Classifier
	Explainer  explain.Explainer
	Store      storage.ReportStore
	Ledger     Ledger
	Cache      NarrativeCache
	Logger     *zap.Logger
}

// Service orchestrates analysis sessions over one admissions source.
type Service struct {
	src        source.Source
	scorer     *scoring.Scorer
	estimator  impact.Estimator
	classifier readmission.Classifier
	explainer  explain.Explainer
	store      storage.ReportStore
	ledger     Ledger
	cache      NarrativeCache
	logger     *zap.Logger

	mu      sync.Mutex
	current *Session
}

// NewService creates a new pipeline Service.
func NewService(src source.Source, scorer *scoring.Scorer, estimator impact.Estimator, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		src:        src,
		scorer:     scorer,
		estimator:  estimator,
		classifier: opts.Classifier,
		explainer:  opts.Explainer,
		store:      opts.Store,
		ledger:     opts.Ledger,
		cache:      opts.Cache,
		logger:     logger,
	}
}

// ModelStatus reports whether a readmission classifier is configured.
func (s *Service) ModelStatus() string {
	if s.classifier == nil {
		return StatusModelNotFound
	}
	return StatusModelLoaded
}

// Session is one enriched snapshot of the admissions table.
type Session struct {
	Table       *admission.Table
	Fingerprint string
	// AnalysisID identifies the enriched results, not just the source data:
	// weights, estimator and classifier changes produce a new ID. It is
	// empty when the source could not be fingerprinted.
	AnalysisID  string
	Prediction  readmission.Result
	Impact      impact.Summary
	ModelStatus string
	AnalyzedAt  time.Time
}

// Degraded reports whether readmission probabilities came from the fallback.
func (s *Session) Degraded() bool {
	return s.Prediction.Degraded()
}

// Patient returns the enriched record for patientID.
func (s *Session) Patient(patientID string) (*admission.Record, error) {
	return s.Table.Find(patientID)
}

// Analyze loads a fresh table and runs every enrichment stage in order:
// score and level, readmission probability and flag, expected savings.
func (s *Service) Analyze(ctx context.Context) (*Session, error) {
	start := time.Now()

	// A failed fingerprint only disables change detection for this session.
	fp, err := s.src.Fingerprint(ctx)
	if err != nil {
		s.logger.Warn("source fingerprint failed", zap.String("source", s.src.Name()), zap.Error(err))
		fp = ""
	}

	table, err := s.src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admissions: %w", err)
	}

	s.scorer.Score(table.Records)

	pred := readmission.Predict(ctx, table.Records, s.classifier)
	if pred.Degraded() {
		metrics.RecordClassifierFallback()
		s.logger.Warn("readmission classifier unavailable, using score fallback",
			zap.String("reason", pred.Reason()),
		)
	}
	readmission.Apply(table.Records, pred)

	summary := s.estimator.Apply(table.Records)

	sess := &Session{
		Table:       table,
		Fingerprint: fp,
		AnalysisID:  analysisID(fp, table, pred, summary),
		Prediction:  pred,
		Impact:      summary,
		ModelStatus: s.ModelStatus(),
		AnalyzedAt:  time.Now(),
	}

	metrics.RecordSession(string(pred.Source), table.Len(), summary.Capped, time.Since(start))
	s.logger.Info("analysis session complete",
		zap.String("source", s.src.Name()),
		zap.Int("patients", table.Len()),
		zap.String("probability_source", string(pred.Source)),
		zap.Float64("estimated_savings", summary.Capped),
		zap.Bool("ceiling_applied", summary.CapApplied),
		zap.Duration("duration", time.Since(start)),
	)
	return sess, nil
}

// analysisID hashes the source fingerprint together with every derived
// value a rendered report can show.
func analysisID(fp string, table *admission.Table, pred readmission.Result, summary impact.Summary) string {
	if fp == "" {
		return ""
	}
	h := sha256.New()
	buf := make([]byte, 0, 64)
	buf = append(buf, fp...)
	buf = append(buf, 0)
	buf = append(buf, string(pred.Source)...)
	buf = strconv.AppendFloat(append(buf, 0), summary.Capped, 'g', -1, 64)
	h.Write(buf)
	for i := range table.Records {
		r := &table.Records[i]
		buf = append(buf[:0], 0)
		buf = append(buf, r.PatientID...)
		buf = strconv.AppendFloat(append(buf, 0), r.RiskScore, 'g', -1, 64)
		buf = strconv.AppendFloat(append(buf, 0), r.ReadmitProb, 'g', -1, 64)
		buf = strconv.AppendFloat(append(buf, 0), r.ExpectedSaving, 'g', -1, 64)
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Current returns the latest session, re-analyzing when the source
// fingerprint has changed since it was built. Concurrent callers share
// the returned session and must treat it as read-only.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil && s.current.Fingerprint != "" {
		fp, err := s.src.Fingerprint(ctx)
		if err == nil && fp == s.current.Fingerprint {
			return s.current, nil
		}
	}

	sess, err := s.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return sess, nil
}

// Package readmission wraps an optional external classifier that predicts the
// probability of hospital readmission. When no classifier is available, or it
// misbehaves, the probability falls back to the composite risk score / 100 and
// the result is marked degraded.
package readmission

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Classifier is an externally trained readmission model.
type Classifier interface {
	// FeatureNames returns the ordered feature columns the model consumes.
	FeatureNames() []string
	// PredictProbability returns one probability in [0,1] per input row,
	// in input row order.
	PredictProbability(ctx context.Context, rows [][]float64) ([]float64, error)
}

// Features is the canonical feature order passed to a classifier.
var Features = []string{
	admission.ColAge,
	admission.ColWBC,
	admission.ColHeartRate,
	admission.ColDiabetes,
	admission.ColHypertension,
}

// Flag thresholds, inclusive lower bounds.
const (
	HighThreshold     = 0.7
	ModerateThreshold = 0.4
)

// Source records where a set of probabilities came from.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Reasons for falling back.
var (
	ErrNoClassifier    = errors.New("no classifier loaded")
	ErrFeatureMismatch = errors.New("classifier feature names do not match")
	ErrBadPrediction   = errors.New("classifier returned an invalid prediction")
	ErrClassifierPanic = errors.New("classifier panicked")
)

// Result is the outcome of a prediction run over a set of records.
type Result struct {
	Probabilities []float64
	Source        Source
	// Err is the cause of a fallback, nil when the model was used.
	Err error
}

// Degraded reports whether the probabilities are the score-derived fallback.
func (r Result) Degraded() bool {
	return r.Source == SourceFallback
}

// Reason returns a human-readable cause of the fallback, or "" when the model
// was used.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// FlagFromProbability maps a readmission probability to its flag.
func FlagFromProbability(p float64) admission.ReadmitFlag {
	switch {
	case p >= HighThreshold:
		return admission.FlagHigh
	case p >= ModerateThreshold:
		return admission.FlagModerate
	default:
		return admission.FlagLow
	}
}

// Predict computes readmission probabilities for records, which must already
// carry RiskScore. It never fails: any classifier problem yields a fallback
// result with Err set.
func Predict(ctx context.Context, records []admission.Record, clf Classifier) Result {
	if clf == nil {
		return fallback(records, ErrNoClassifier)
	}
	if !sameFeatures(clf.FeatureNames(), Features) {
		return fallback(records, fmt.Errorf("%w: got %v", ErrFeatureMismatch, clf.FeatureNames()))
	}

	rows := make([][]float64, len(records))
	for i := range records {
		row := make([]float64, len(Features))
		for j, f := range Features {
			row[j] = records[i].Value(f)
		}
		rows[i] = row
	}

	probs, err := invoke(ctx, clf, rows)
	if err != nil {
		return fallback(records, err)
	}
	if len(probs) != len(records) {
		return fallback(records, fmt.Errorf("%w: %d values for %d rows", ErrBadPrediction, len(probs), len(records)))
	}
	for i, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
			return fallback(records, fmt.Errorf("%w: row %d = %v", ErrBadPrediction, i, p))
		}
	}

	return Result{Probabilities: probs, Source: SourceModel}
}

// Apply writes ReadmitProb and ReadmitFlag from a result onto records.
func Apply(records []admission.Record, res Result) {
	for i := range records {
		if i >= len(res.Probabilities) {
			break
		}
		records[i].ReadmitProb = res.Probabilities[i]
		records[i].ReadmitFlag = FlagFromProbability(res.Probabilities[i])
	}
}

func invoke(ctx context.Context, clf Classifier, rows [][]float64) (probs []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			probs = nil
			err = fmt.Errorf("%w: %v", ErrClassifierPanic, r)
		}
	}()
	return clf.PredictProbability(ctx, rows)
}

func fallback(records []admission.Record, cause error) Result {
	probs := make([]float64, len(records))
	for i := range records {
		probs[i] = records[i].RiskScore / 100
	}
	return Result{Probabilities: probs, Source: SourceFallback, Err: cause}
}

func sameFeatures(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

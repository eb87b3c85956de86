// Package explain ranks per-feature attributions for one patient from an
// external explainability oracle.
package explain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// ErrUnavailable means no explanation could be produced because no explainer
// is loaded or it cannot name its features. It is distinct from an
// explanation whose contributions happen to be zero.
var ErrUnavailable = errors.New("explanation unavailable")

// Explainer is an external attribution oracle.
type Explainer interface {
	// RequiredFeatures returns the feature columns the explainer consumes.
	RequiredFeatures() ([]string, error)
	// Attribute returns one contribution vector per row, aligned with
	// RequiredFeatures.
	Attribute(ctx context.Context, rows [][]float64) ([][]float64, error)
}

// Contribution is one feature's attribution for a patient.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
	// Input is the feature value passed to the explainer.
	Input float64 `json:"input"`
}

// Explanation is the ranked attribution for one patient.
type Explanation struct {
	PatientID     string         `json:"patient_id"`
	Contributions []Contribution `json:"contributions"`
	// Filled lists features the table lacked; they were passed as 0.
	Filled []string `json:"filled,omitempty"`
}

// Explain attributes the named patient's features and returns them sorted by
// descending absolute contribution. The table is never modified.
func Explain(ctx context.Context, ex Explainer, patientID string, table *admission.Table) (*Explanation, error) {
	if ex == nil {
		return nil, ErrUnavailable
	}
	features, err := ex.RequiredFeatures()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("%w: explainer reports no features", ErrUnavailable)
	}

	rec, err := table.Find(patientID)
	if err != nil {
		return nil, err
	}
	proj := table.Project(rec, features)

	attrs, err := ex.Attribute(ctx, [][]float64{proj.Values})
	if err != nil {
		return nil, fmt.Errorf("attributing patient %s: %w", patientID, err)
	}
	if len(attrs) != 1 || len(attrs[0]) != len(features) {
		return nil, fmt.Errorf("attributing patient %s: expected 1x%d contributions", patientID, len(features))
	}

	contribs := make([]Contribution, len(features))
	for i, f := range features {
		contribs[i] = Contribution{Feature: f, Value: attrs[0][i], Input: proj.Values[i]}
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return math.Abs(contribs[i].Value) > math.Abs(contribs[j].Value)
	})

	return &Explanation{
		PatientID:     rec.PatientID,
		Contributions: contribs,
		Filled:        proj.Filled,
	}, nil
}

package scoring

import (
	"math"
	"sort"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Scorer computes composite risk scores with a fixed set of weights.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Weights returns the weights the scorer was built with.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Linear returns the pre-squash linear term for a record.
func (s *Scorer) Linear(r *admission.Record) float64 {
	var linear float64
	for _, c := range s.terms(r) {
		linear += c.Contribution
	}
	return linear
}

// ScoreRecord returns the composite risk score for a single record.
// Absent feature columns contribute 0.
func (s *Scorer) ScoreRecord(r *admission.Record) float64 {
	return 100 / (1 + math.Exp(-s.Linear(r)))
}

// Score sets RiskScore and RiskLevel on every record and returns the slice
// for chaining. It uses ScoreRecord and LevelFromScore, so batch and
// single-record results are identical.
func (s *Scorer) Score(records []admission.Record) []admission.Record {
	for i := range records {
		records[i].RiskScore = s.ScoreRecord(&records[i])
	}
	AssignLevels(records)
	return records
}

// Breakdown returns the per-feature linear contributions for a record,
// largest magnitude first.
func (s *Scorer) Breakdown(r *admission.Record) []Contribution {
	terms := s.terms(r)
	sort.SliceStable(terms, func(i, j int) bool {
		return math.Abs(terms[i].Contribution) > math.Abs(terms[j].Contribution)
	})
	return terms
}

func (s *Scorer) terms(r *admission.Record) []Contribution {
	w := s.weights
	age := r.Value(admission.ColAge)
	wbc := r.Value(admission.ColWBC)
	hr := r.Value(admission.ColHeartRate)
	dm := r.Value(admission.ColDiabetes)
	htn := r.Value(admission.ColHypertension)

	return []Contribution{
		{Feature: admission.ColAge, Value: age, Weight: w.Age, Contribution: w.Age * (age / AgeScale)},
		{Feature: admission.ColWBC, Value: wbc, Weight: w.WBC, Contribution: w.WBC * (wbc / WBCScale)},
		{Feature: admission.ColHeartRate, Value: hr, Weight: w.HeartRate, Contribution: w.HeartRate * (hr / HeartRateScale)},
		{Feature: admission.ColDiabetes, Value: dm, Weight: w.Diabetes, Contribution: w.Diabetes * dm},
		{Feature: admission.ColHypertension, Value: htn, Weight: w.Hypertension, Contribution: w.Hypertension * htn},
	}
}

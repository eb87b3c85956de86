// Package impact estimates the money a hospital saves by preventing
// readmissions, per patient and capped across the population.
package impact

import "github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"

// Defaults for Estimator.
const (
	DefaultCostPerPatient        = 15000.0
	DefaultPreventionSuccessRate = 0.7
	// DefaultCeiling is the policy-level bound on the aggregate: 15% of a
	// 26 billion dollar penalty pool.
	DefaultCeiling = 26e9 * 0.15
)

// Estimator computes expected savings.
type Estimator struct {
	CostPerPatient        float64 `yaml:"cost_per_patient" json:"cost_per_patient"`
	PreventionSuccessRate float64 `yaml:"prevention_success_rate" json:"prevention_success_rate"`
	Ceiling               float64 `yaml:"ceiling" json:"ceiling"`
}

// Summary is the population-level impact.
type Summary struct {
	// Total is the uncapped sum of individual savings.
	Total float64 `json:"total"`
	// Capped is min(Total, Ceiling).
	Capped     float64 `json:"capped"`
	CapApplied bool    `json:"cap_applied"`
	Patients   int     `json:"patients"`
}

// DefaultEstimator returns an estimator with the default parameters.
func DefaultEstimator() Estimator {
	return Estimator{
		CostPerPatient:        DefaultCostPerPatient,
		PreventionSuccessRate: DefaultPreventionSuccessRate,
		Ceiling:               DefaultCeiling,
	}
}

// IndividualSaving returns the expected saving for one patient.
func (e Estimator) IndividualSaving(score float64) float64 {
	return e.CostPerPatient * (score / 100) * e.PreventionSuccessRate
}

// Aggregate sums individual savings and applies the ceiling once to the sum.
func (e Estimator) Aggregate(scores []float64) Summary {
	var total float64
	for _, s := range scores {
		total += e.IndividualSaving(s)
	}
	sum := Summary{Total: total, Capped: total, Patients: len(scores)}
	if total > e.Ceiling {
		sum.Capped = e.Ceiling
		sum.CapApplied = true
	}
	return sum
}

// Apply writes ExpectedSaving onto every record and returns the aggregate.
func (e Estimator) Apply(records []admission.Record) Summary {
	scores := make([]float64, len(records))
	for i := range records {
		records[i].ExpectedSaving = e.IndividualSaving(records[i].RiskScore)
		scores[i] = records[i].RiskScore
	}
	return e.Aggregate(scores)
}

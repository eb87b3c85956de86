// Package scoring implements the composite readmission risk score.
// It maps a handful of clinical features through a weighted logistic squash
// to a 0-100 score and buckets the score into a risk level.
package scoring

import "github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"

// Level thresholds, inclusive lower bounds.
const (
	HighThreshold   = 75.0
	MediumThreshold = 50.0
)

// LevelFromScore maps a risk score to its level.
func LevelFromScore(score float64) admission.RiskLevel {
	switch {
	case score >= HighThreshold:
		return admission.RiskHigh
	case score >= MediumThreshold:
		return admission.RiskMedium
	default:
		return admission.RiskLow
	}
}

// AssignLevels sets RiskLevel on every record from its RiskScore.
func AssignLevels(records []admission.Record) {
	for i := range records {
		records[i].RiskLevel = LevelFromScore(records[i].RiskScore)
	}
}

// Contribution is one feature's share of the linear term of the composite score.
type Contribution struct {
	Feature      string  `json:"feature"`
	Value        float64 `json:"value"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// Package admission defines the admission record table that flows through the
// readmission pipeline: raw clinical features from the source plus the
// derived fields the pipeline attaches.
package admission

import "errors"

// ErrRecordNotFound is returned when a patient identity is absent from a table.
var ErrRecordNotFound = errors.New("patient record not found")

// Source column names. The spellings match the admissions_scored table.
const (
	ColPatientID      = "patient_id"
	ColName           = "name"
	ColDisease        = "disease"
	ColRecommendation = "recommendation"

	ColAge          = "agefactor"
	ColWBC          = "WBC mean"
	ColHeartRate    = "heart rate"
	ColDiabetes     = "diabetes"
	ColHypertension = "hypertension"
	ColCKD          = "ckd"
	ColCOPD         = "copd"
	ColCAD          = "cad"
	ColStroke       = "stroke"
	ColCancer       = "cancer"
	ColBP           = "BP-mean"
	ColTemperature  = "temperature mean"
	ColHaemoglobin  = "haemoglobin"

	ColAntibiotics       = "antibiotics"
	ColAntihypertensives = "antihypertensives"
	ColInsulin           = "insulin"
	ColStatins           = "statins"
	ColAnticoagulants    = "anticoagulants"
)

// Comorbidities lists the binary comorbidity indicators in report order.
var Comorbidities = []string{ColDiabetes, ColHypertension, ColCKD, ColCOPD, ColCAD, ColStroke, ColCancer}

// Medications lists the binary medication flags in report order.
var Medications = []string{ColAntibiotics, ColAntihypertensives, ColInsulin, ColStatins, ColAnticoagulants}

// TextColumns are the non-numeric columns carried on Record fields rather than in Values.
var TextColumns = []string{ColPatientID, ColName, ColDisease, ColRecommendation}

// RiskLevel is the categorical composite risk level.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// ReadmitFlag is the categorical readmission risk derived from a probability.
type ReadmitFlag string

const (
	FlagLow      ReadmitFlag = "Low Risk"
	FlagModerate ReadmitFlag = "Moderate Risk"
	FlagHigh     ReadmitFlag = "High Risk"
)

// Record is one admission episode.
type Record struct {
	PatientID      string             `json:"patient_id"`
	Name           string             `json:"name"`
	Disease        string             `json:"disease,omitempty"`
	Recommendation string             `json:"recommendation,omitempty"`
	Values         map[string]float64 `json:"values"`

	// Derived by the pipeline. Never written back to the source.
	RiskScore      float64     `json:"risk_score"`
	RiskLevel      RiskLevel   `json:"risk_level,omitempty"`
	ExpectedSaving float64     `json:"expected_saving"`
	ReadmitProb    float64     `json:"readmit_prob"`
	ReadmitFlag    ReadmitFlag `json:"readmit_flag,omitempty"`
}

// Value returns the numeric value of a column, or 0 when the column is absent.
func (r *Record) Value(col string) float64 {
	return r.Values[col]
}

// Has reports whether the record carries a value for col.
func (r *Record) Has(col string) bool {
	_, ok := r.Values[col]
	return ok
}

// Flag reports whether a binary indicator column is set. Any non-zero value counts.
func (r *Record) Flag(col string) bool {
	return r.Values[col] != 0
}

// Set stores a numeric value, allocating the map on first use.
func (r *Record) Set(col string, v float64) {
	if r.Values == nil {
		r.Values = make(map[string]float64)
	}
	r.Values[col] = v
}

// clone returns a deep copy of the record.
func (r Record) clone() Record {
	if r.Values != nil {
		vals := make(map[string]float64, len(r.Values))
		for k, v := range r.Values {
			vals[k] = v
		}
		r.Values = vals
	}
	return r
}

// Package surface renders a single patient's risk view for different output
// targets: terminal, JSON and Markdown.
package surface

import (
	"fmt"
	"io"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
)

// Renderer produces formatted output for one patient.
type Renderer interface {
	// Render writes the formatted patient view to the writer.
	Render(w io.Writer, view *PatientView) error
}

// PatientView is everything shown for one selected patient.
type PatientView struct {
	Record *admission.Record `json:"record"`
	Report *report.Report    `json:"report"`
	Impact impact.Summary    `json:"impact"`
	// ModelStatus describes the readmission classifier, e.g. "model loaded".
	ModelStatus string `json:"model_status"`
	// Degraded is set when probabilities came from the score fallback.
	Degraded bool `json:"degraded"`
	// Explanation is nil when no explainer is available.
	Explanation *explain.Explanation `json:"explanation,omitempty"`
}

// Alert is the predictive readmission banner for a record, e.g.
// "⚠ High-Risk (72.0%)".
func Alert(rec *admission.Record) string {
	pct := report.Percent(rec.ReadmitProb*100, 1)
	switch rec.ReadmitFlag {
	case admission.FlagHigh:
		return fmt.Sprintf("⚠ High-Risk (%s)", pct)
	case admission.FlagModerate:
		return fmt.Sprintf("⚠ Medium-Risk (%s)", pct)
	default:
		return fmt.Sprintf("Low Risk (%s)", pct)
	}
}

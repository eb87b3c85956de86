package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
)

// TerminalRenderer renders PatientView as colored terminal output.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func levelColor(level admission.RiskLevel) string {
	if noColor() {
		return ""
	}
	switch level {
	case admission.RiskHigh:
		return colorRed
	case admission.RiskMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

func flagColor(flag admission.ReadmitFlag) string {
	if noColor() {
		return ""
	}
	switch flag {
	case admission.FlagHigh:
		return colorRed
	case admission.FlagModerate:
		return colorYellow
	default:
		return colorGreen
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func (r *TerminalRenderer) Render(w io.Writer, view *PatientView) error {
	rec := view.Record

	fmt.Fprintf(w, "%s\n", bold("Patient Details"))
	fmt.Fprintf(w, "  Name: %s\n", rec.Name)
	fmt.Fprintf(w, "  Age: %s\n", report.Age(rec.Value(admission.ColAge)))
	fmt.Fprintf(w, "  Disease: %s\n\n", rec.Disease)

	fmt.Fprintf(w, "%s\n", bold("Patient Risk Assessment"))
	fmt.Fprintf(w, "  Risk Score: %s\n", report.Percent(rec.RiskScore, 2))
	fmt.Fprintf(w, "  Risk Level: %s\n", colored(string(rec.RiskLevel), levelColor(rec.RiskLevel)))
	fmt.Fprintf(w, "  Recommendation: %s\n\n", report.Recommendation(rec))

	fmt.Fprintf(w, "%s\n", bold("Individual Patient Impact"))
	fmt.Fprintf(w, "  Expected Money Saved: %s\n\n", report.Money(rec.ExpectedSaving))

	fmt.Fprintf(w, "%s\n", bold("Overall Hospital Impact"))
	fmt.Fprintf(w, "  Estimated Overall Savings: %s\n", report.Money(view.Impact.Capped))
	if view.Impact.CapApplied {
		fmt.Fprintf(w, "  %s\n", dim(fmt.Sprintf("capped from %s", report.Money(view.Impact.Total))))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", bold("Predictive Readmission Alert"))
	fmt.Fprintf(w, "  %s\n", colored(Alert(rec), flagColor(rec.ReadmitFlag)))
	if view.ModelStatus != "" {
		fmt.Fprintf(w, "  %s\n", dim(view.ModelStatus))
	}
	fmt.Fprintln(w)

	if view.Report != nil {
		fmt.Fprintf(w, "%s\n", bold("Structured Report"))
		for _, line := range strings.Split(strings.TrimRight(report.RenderText(view.Report), "\n"), "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", bold("Feature Contributions"))
	if view.Explanation == nil {
		fmt.Fprintf(w, "  %s\n\n", dim("unavailable"))
		return nil
	}
	for _, c := range view.Explanation.Contributions {
		sign := "+"
		if c.Value < 0 {
			sign = ""
		}
		fmt.Fprintf(w, "  (%s%.4f) %s\n", sign, c.Value, c.Feature)
	}
	if len(view.Explanation.Filled) > 0 {
		fmt.Fprintf(w, "  %s\n", dim("not in source, treated as 0: "+strings.Join(view.Explanation.Filled, ", ")))
	}
	fmt.Fprintln(w)

	return nil
}

package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
)

// MarkdownRenderer produces a Markdown summary of a PatientView, used by
// tool integrations that display rich text.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(w io.Writer, view *PatientView) error {
	_, err := io.WriteString(w, BuildMarkdown(view))
	return err
}

// BuildMarkdown creates the Markdown body for a PatientView.
func BuildMarkdown(view *PatientView) string {
	rec := view.Record
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s %s\n\n", levelIcon(rec.RiskLevel), report.Name(rec)))

	sb.WriteString("| Field | Value |\n|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Age | %s |\n", report.Age(rec.Value(admission.ColAge))))
	sb.WriteString(fmt.Sprintf("| Disease | %s |\n", report.Disease(rec)))
	sb.WriteString(fmt.Sprintf("| Risk Score | %s |\n", report.ScoreLine(rec)))
	sb.WriteString(fmt.Sprintf("| Readmission | %s |\n", Alert(rec)))
	sb.WriteString(fmt.Sprintf("| Expected Money Saved | %s |\n", report.Money(rec.ExpectedSaving)))
	sb.WriteString(fmt.Sprintf("| Estimated Overall Savings | %s |\n", report.Money(view.Impact.Capped)))
	sb.WriteString("\n")

	if view.Degraded {
		sb.WriteString("_Readmission probability derived from the composite score; no model was used._\n\n")
	}

	if view.Report != nil {
		for _, s := range view.Report.Sections {
			sb.WriteString(fmt.Sprintf("### %s\n\n", s.Title))
			switch s.Kind {
			case report.KindGroups:
				for _, g := range s.Groups {
					sb.WriteString(fmt.Sprintf("- **%s**: %s\n", g.Key, strings.Join(g.Items, ", ")))
				}
			case report.KindList:
				for _, item := range s.Items {
					sb.WriteString(fmt.Sprintf("- %s\n", item))
				}
			default:
				sb.WriteString(s.Text + "\n")
			}
			sb.WriteString("\n")
		}
	}

	if view.Explanation != nil && len(view.Explanation.Contributions) > 0 {
		sb.WriteString("### Top Contributions\n\n")
		max := 5
		if len(view.Explanation.Contributions) < max {
			max = len(view.Explanation.Contributions)
		}
		for i := 0; i < max; i++ {
			c := view.Explanation.Contributions[i]
			sb.WriteString(fmt.Sprintf("- `%s` %+.4f\n", c.Feature, c.Value))
		}
	}

	return sb.String()
}

func levelIcon(level admission.RiskLevel) string {
	switch level {
	case admission.RiskHigh:
		return ":red_circle:"
	case admission.RiskMedium:
		return ":orange_circle:"
	default:
		return ":green_circle:"
	}
}

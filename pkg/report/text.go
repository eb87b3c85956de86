package report

import "strings"

// RenderText flattens a report into plain text. Each section is written as
// its title and a colon, then its content indented by two spaces, then a
// blank line.
func RenderText(r *Report) string {
	var b strings.Builder
	for _, s := range r.Sections {
		b.WriteString(s.Title)
		b.WriteString(":\n")
		switch s.Kind {
		case KindGroups:
			for _, g := range s.Groups {
				b.WriteString("  ")
				b.WriteString(g.Key)
				b.WriteString(": ")
				b.WriteString(strings.Join(g.Items, ", "))
				b.WriteByte('\n')
			}
		case KindList:
			for _, item := range s.Items {
				b.WriteString("  - ")
				b.WriteString(item)
				b.WriteByte('\n')
			}
		default:
			b.WriteString("  ")
			b.WriteString(s.Text)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}

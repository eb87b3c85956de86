package report

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// PDFTitle is the heading of the exported patient document.
const PDFTitle = "Patient Risk Summary"

// PDFFileName returns the download file name for a patient's PDF. The name
// is a single path element: separators and control characters become "_".
func PDFFileName(rec *admission.Record) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(rec.Name))
	if name == "" || name == "." || name == ".." {
		name = "unknown"
	}
	return name + "_summary.pdf"
}

// PDFLines returns the patient detail lines written above the narrative.
func PDFLines(rec *admission.Record) []string {
	return []string{
		"Patient Name: " + Name(rec),
		"Age: " + Age(rec.Value(admission.ColAge)),
		"Disease: " + Disease(rec),
		"Risk Score: " + ScoreLine(rec),
		"Recommendation: " + Recommendation(rec),
	}
}

// RenderPDF lays out a single-page patient document: title, patient detail
// lines, then the narrative text. Page content is left uncompressed so the
// field text is present in the output bytes.
func RenderPDF(rec *admission.Record, narrative string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetTitle(PDFTitle, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, PDFTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(10)
	for _, line := range PDFLines(rec) {
		pdf.MultiCell(0, 8, tr(line), "", "L", false)
	}
	pdf.Ln(5)
	pdf.MultiCell(0, 8, "AI-Generated Summary:", "", "L", false)
	pdf.MultiCell(0, 8, tr(narrative), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

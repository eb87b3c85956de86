// Package export writes the scored cohort to an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
)

// Sheet names.
const (
	SheetPatients = "Patients"
	SheetSummary  = "Summary"
)

// PatientHeader is the header row of the Patients sheet.
var PatientHeader = []string{
	"Patient ID",
	"Name",
	"Age",
	"Disease",
	"Risk Score",
	"Risk Level",
	"Readmission Probability",
	"Readmission Flag",
	"Expected Saving",
}

var columnWidths = []float64{14, 24, 8, 22, 12, 12, 24, 18, 18}

// Cohort is the data written to a workbook.
type Cohort struct {
	Records  []admission.Record
	Impact   impact.Summary
	Degraded bool // probabilities came from the score fallback
}

// WriteXLSX writes the cohort workbook to w.
func WriteXLSX(w io.Writer, c Cohort) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetPatients)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	if err := writeRow(f, SheetPatients, 1, toAny(PatientHeader)); err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(len(PatientHeader))
	if err := f.SetCellStyle(SheetPatients, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetPatients, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i := range c.Records {
		rec := &c.Records[i]
		row := i + 2
		if err := writeRow(f, SheetPatients, row, []any{
			rec.PatientID,
			rec.Name,
			rec.Value(admission.ColAge),
			rec.Disease,
			rec.RiskScore,
			string(rec.RiskLevel),
			rec.ReadmitProb,
			string(rec.ReadmitFlag),
			rec.ExpectedSaving,
		}); err != nil {
			return err
		}
	}
	if n := len(c.Records); n > 0 {
		if err := f.SetCellStyle(SheetPatients, "I2", fmt.Sprintf("I%d", n+1), moneyStyle); err != nil {
			return fmt.Errorf("set money style: %w", err)
		}
	}

	if err := f.SetPanes(SheetPatients, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	source := "model"
	if c.Degraded {
		source = "fallback"
	}
	summary := [][]any{
		{"Patients", c.Impact.Patients},
		{"Total Savings", c.Impact.Total},
		{"Estimated Overall Savings", c.Impact.Capped},
		{"Ceiling Applied", c.Impact.CapApplied},
		{"Probability Source", source},
	}
	for i, r := range summary {
		if err := writeRow(f, SheetSummary, i+1, r); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SheetSummary, "B2", "B3", moneyStyle); err != nil {
		return fmt.Errorf("set money style: %w", err)
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 28); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

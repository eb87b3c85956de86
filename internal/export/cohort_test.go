package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
)

func TestWriteXLSX(t *testing.T) {
	cohort := Cohort{
		Records: []admission.Record{
			{
				PatientID:      "p1",
				Name:           "Ada Lovelace",
				Disease:        "Heart failure",
				Values:         map[string]float64{admission.ColAge: 70},
				RiskScore:      96.84,
				RiskLevel:      admission.RiskHigh,
				ReadmitProb:    0.72,
				ReadmitFlag:    admission.FlagHigh,
				ExpectedSaving: 10168.2,
			},
			{PatientID: "p2", Name: "Bob", RiskScore: 50, RiskLevel: admission.RiskMedium, ReadmitProb: 0.5, ReadmitFlag: admission.FlagModerate},
		},
		Impact:   impact.Summary{Total: 15418.2, Capped: 15418.2, Patients: 2},
		Degraded: true,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, cohort))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetPatients, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetPatients)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, PatientHeader, rows[0])
	assert.Equal(t, "p1", rows[1][0])
	assert.Equal(t, "Ada Lovelace", rows[1][1])
	assert.Equal(t, "HIGH", rows[1][5])
	assert.Equal(t, "High Risk", rows[1][7])
	assert.Equal(t, "Moderate Risk", rows[2][7])

	src, err := f.GetCellValue(SheetSummary, "B5")
	require.NoError(t, err)
	assert.Equal(t, "fallback", src)
	patients, err := f.GetCellValue(SheetSummary, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", patients)
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Cohort{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetPatients)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

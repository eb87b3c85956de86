package admission_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

func sampleTable() *admission.Table {
	return &admission.Table{
		Columns: []string{"patient_id", "name", "agefactor", "WBC mean", "diabetes"},
		Records: []admission.Record{
			{PatientID: "p1", Name: "Ada", Values: map[string]float64{"agefactor": 70, "WBC mean": 12000, "diabetes": 1}},
			{PatientID: "p2", Name: "Ben", Values: map[string]float64{"agefactor": 40, "WBC mean": 8000, "diabetes": 0}},
		},
	}
}

func TestRecordValueMissingColumnIsZero(t *testing.T) {
	r := admission.Record{PatientID: "p1"}
	if got := r.Value(admission.ColHypertension); got != 0 {
		t.Errorf("Value(hypertension) = %f, want 0", got)
	}
	if r.Has(admission.ColHypertension) {
		t.Error("expected Has to be false for absent column")
	}
	r.Set(admission.ColHypertension, 1)
	if !r.Flag(admission.ColHypertension) {
		t.Error("expected Flag to be true after Set")
	}
}

func TestTableFind(t *testing.T) {
	tbl := sampleTable()

	r, err := tbl.Find("p2")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if r.Name != "Ben" {
		t.Errorf("Name = %q, want Ben", r.Name)
	}

	// Writes through the pointer are visible in the table.
	r.RiskScore = 42
	if tbl.Records[1].RiskScore != 42 {
		t.Error("expected Find to alias the table record")
	}

	_, err = tbl.Find("missing")
	if !errors.Is(err, admission.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTableCloneIsDeep(t *testing.T) {
	tbl := sampleTable()
	cp := tbl.Clone()

	cp.Records[0].Values["agefactor"] = 99
	cp.Records[0].RiskScore = 10
	cp.Columns[0] = "changed"

	if tbl.Records[0].Values["agefactor"] != 70 {
		t.Error("clone shares the values map with the original")
	}
	if tbl.Records[0].RiskScore != 0 {
		t.Error("clone shares derived fields with the original")
	}
	if tbl.Columns[0] != "patient_id" {
		t.Error("clone shares the column slice with the original")
	}
}

func TestTableProjectDoesNotMutate(t *testing.T) {
	tbl := sampleTable()
	r, _ := tbl.Find("p1")

	p := tbl.Project(r, []string{"agefactor", "hypertension", "WBC mean", "ckd"})

	want := []float64{70, 0, 12000, 0}
	for i, v := range want {
		if p.Values[i] != v {
			t.Errorf("Values[%d] = %f, want %f", i, p.Values[i], v)
		}
	}
	if len(p.Filled) != 2 || p.Filled[0] != "hypertension" || p.Filled[1] != "ckd" {
		t.Errorf("Filled = %v, want [hypertension ckd]", p.Filled)
	}
	if tbl.HasColumn("hypertension") {
		t.Error("projection added a column to the table")
	}
	if r.Has("hypertension") {
		t.Error("projection added a value to the record")
	}
}

func TestTableMatrix(t *testing.T) {
	tbl := sampleTable()
	m := tbl.Matrix([]string{"agefactor", "hypertension"})
	if len(m) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(m))
	}
	if m[0][0] != 70 || m[0][1] != 0 || m[1][0] != 40 {
		t.Errorf("unexpected matrix %v", m)
	}
}

func TestSaveLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "table.json")
	tbl := sampleTable()
	tbl.Columns = nil

	if err := admission.SaveTable(path, tbl); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}
	got, err := admission.LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", got.Len())
	}
	// Derived column order: text columns, then canonical features present.
	want := []string{"patient_id", "name", "disease", "recommendation", "agefactor", "WBC mean", "diabetes"}
	if len(got.Columns) != len(want) {
		t.Fatalf("Columns = %v, want %v", got.Columns, want)
	}
	for i := range want {
		if got.Columns[i] != want[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, got.Columns[i], want[i])
		}
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := admission.LoadTable(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPatients(t *testing.T) {
	ps := sampleTable().Patients()
	if len(ps) != 2 || ps[0].ID != "p1" || ps[1].Name != "Ben" {
		t.Errorf("unexpected patients %v", ps)
	}
}

package surface_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/surface"
)

func sampleView() *surface.PatientView {
	rec := &admission.Record{
		PatientID:      "p1",
		Name:           "Ada Lovelace",
		Disease:        "Heart failure",
		Recommendation: "Schedule follow-up within 7 days",
		Values: map[string]float64{
			admission.ColAge:         70,
			admission.ColDiabetes:    1,
			admission.ColWBC:         12000,
			admission.ColBP:          120,
			admission.ColHaemoglobin: 13,
		},
		RiskScore:      96.84,
		RiskLevel:      admission.RiskHigh,
		ExpectedSaving: 10168.2,
		ReadmitProb:    0.72,
		ReadmitFlag:    admission.FlagHigh,
	}
	return &surface.PatientView{
		Record:      rec,
		Report:      report.Synthesize(rec),
		Impact:      impact.Summary{Total: 1234567.891, Capped: 1234567.891, Patients: 200},
		ModelStatus: "model loaded",
		Explanation: &explain.Explanation{
			PatientID: "p1",
			Contributions: []explain.Contribution{
				{Feature: "diabetes", Value: 0.42},
				{Feature: "heart rate", Value: -0.05},
			},
			Filled: []string{"ckd"},
		},
	}
}

func TestTerminalRenderer_BasicOutput(t *testing.T) {
	// Set NO_COLOR to avoid ANSI codes in test comparison
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	r := &surface.TerminalRenderer{}
	var buf bytes.Buffer

	if err := r.Render(&buf, sampleView()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Name: Ada Lovelace",
		"Age: 70",
		"Disease: Heart failure",
		"Risk Score: 96.84%",
		"Risk Level: HIGH",
		"Recommendation: Schedule follow-up within 7 days",
		"Expected Money Saved: $10,168.20",
		"Estimated Overall Savings: $1,234,567.89",
		"⚠ High-Risk (72.0%)",
		"model loaded",
		"- High WBC (12,000)",
		"(+0.4200) diabetes",
		"(-0.0500) heart rate",
		"treated as 0: ckd",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(output, "\033[") {
		t.Error("unexpected ANSI codes with NO_COLOR set")
	}
}

func TestTerminalRenderer_ExplanationUnavailable(t *testing.T) {
	os.Setenv("NO_COLOR", "1")
	defer os.Unsetenv("NO_COLOR")

	view := sampleView()
	view.Explanation = nil

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, view); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "unavailable") {
		t.Error("expected explanation to be reported as unavailable")
	}
}

func TestTerminalRenderer_ColorRespected(t *testing.T) {
	// Without NO_COLOR, output should have ANSI codes
	os.Unsetenv("NO_COLOR")

	var buf bytes.Buffer
	if err := (&surface.TerminalRenderer{}).Render(&buf, sampleView()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(buf.String(), "\033[") {
		t.Error("expected ANSI escape codes when NO_COLOR is not set")
	}
}

func TestAlert(t *testing.T) {
	tests := []struct {
		flag admission.ReadmitFlag
		prob float64
		want string
	}{
		{admission.FlagHigh, 0.72, "⚠ High-Risk (72.0%)"},
		{admission.FlagModerate, 0.45, "⚠ Medium-Risk (45.0%)"},
		{admission.FlagLow, 0.123, "Low Risk (12.3%)"},
	}
	for _, tt := range tests {
		rec := &admission.Record{ReadmitFlag: tt.flag, ReadmitProb: tt.prob}
		if got := surface.Alert(rec); got != tt.want {
			t.Errorf("Alert(%s) = %q, want %q", tt.flag, got, tt.want)
		}
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := (&surface.JSONRenderer{}).Render(&buf, sampleView()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	rep, ok := decoded["report"].(map[string]any)
	if !ok {
		t.Fatalf("expected report object, got %T", decoded["report"])
	}
	if _, ok := rep["Risk Factors"]; !ok {
		t.Error("expected Risk Factors in report JSON")
	}
}

func TestMarkdownRenderer(t *testing.T) {
	view := sampleView()
	view.Degraded = true

	md := surface.BuildMarkdown(view)
	for _, want := range []string{
		"## :red_circle: Ada Lovelace",
		"| Risk Score | 96.84% (HIGH) |",
		"### Risk Factors",
		"- **Current Medications**: None",
		"no model was used",
		"`diabetes` +0.4200",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("expected %q in markdown", want)
		}
	}
}

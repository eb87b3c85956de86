// Package mcptools exposes the readmission pipeline as MCP tools.
//
// Each tool follows the same shape: a struct holding the pipeline Service,
// Definition() returning the mcp.Tool schema, and Handle() running the call
// against the current analysis session.
package mcptools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/surface"
)

// NewServer builds an MCP server with every readmit tool registered.
func NewServer(svc *pipeline.Service, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"readmit",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	list := NewListPatientsTool(svc)
	s.AddTool(list.Definition(), list.Handle)

	rep := NewPatientReportTool(svc)
	s.AddTool(rep.Definition(), rep.Handle)

	imp := NewImpactTool(svc)
	s.AddTool(imp.Definition(), imp.Handle)

	exp := NewExplainTool(svc)
	s.AddTool(exp.Definition(), exp.Handle)

	return s
}

// session loads the current session or returns a tool error result.
func session(ctx context.Context, svc *pipeline.Service) (*pipeline.Session, *mcp.CallToolResult) {
	sess, err := svc.Current(ctx)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("failed to load admissions: %v", err))
	}
	return sess, nil
}

func patientError(patientID string, err error) *mcp.CallToolResult {
	if errors.Is(err, admission.ErrRecordNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("patient %q not found", patientID))
	}
	return mcp.NewToolResultError(err.Error())
}

// ListPatientsTool handles the list_patients MCP tool.
type ListPatientsTool struct {
	svc *pipeline.Service
}

// NewListPatientsTool creates a ListPatientsTool.
func NewListPatientsTool(svc *pipeline.Service) *ListPatientsTool {
	return &ListPatientsTool{svc: svc}
}

// Definition returns the MCP tool definition for list_patients.
func (t *ListPatientsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_patients",
		mcp.WithDescription("List patients with their composite risk score, risk level and readmission flag."),
		mcp.WithString("level",
			mcp.Description("Only include patients at this risk level: LOW, MEDIUM or HIGH"),
		),
	)
}

// Handle processes the list_patients tool call.
func (t *ListPatientsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := session(ctx, t.svc)
	if errResult != nil {
		return errResult, nil
	}
	level := strings.ToUpper(req.GetString("level", ""))

	var sb strings.Builder
	sb.WriteString("| Patient ID | Name | Risk Score | Level | Readmission |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	n := 0
	for i := range sess.Table.Records {
		rec := &sess.Table.Records[i]
		if level != "" && string(rec.RiskLevel) != level {
			continue
		}
		n++
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			rec.PatientID, report.Name(rec), report.Percent(rec.RiskScore, 2), rec.RiskLevel, surface.Alert(rec)))
	}
	sb.WriteString(fmt.Sprintf("\n%d patient(s)\n", n))
	return mcp.NewToolResultText(sb.String()), nil
}

// PatientReportTool handles the patient_report MCP tool.
type PatientReportTool struct {
	svc *pipeline.Service
}

// NewPatientReportTool creates a PatientReportTool.
func NewPatientReportTool(svc *pipeline.Service) *PatientReportTool {
	return &PatientReportTool{svc: svc}
}

// Definition returns the MCP tool definition for patient_report.
func (t *PatientReportTool) Definition() mcp.Tool {
	return mcp.NewTool("patient_report",
		mcp.WithDescription("Show the risk assessment and structured clinical report for one patient."),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier"),
		),
	)
}

// Handle processes the patient_report tool call.
func (t *PatientReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	sess, errResult := session(ctx, t.svc)
	if errResult != nil {
		return errResult, nil
	}

	view, err := t.svc.View(ctx, sess, patientID)
	if err != nil {
		return patientError(patientID, err), nil
	}
	return mcp.NewToolResultText(surface.BuildMarkdown(view)), nil
}

// ImpactTool handles the hospital_impact MCP tool.
type ImpactTool struct {
	svc *pipeline.Service
}

// NewImpactTool creates an ImpactTool.
func NewImpactTool(svc *pipeline.Service) *ImpactTool {
	return &ImpactTool{svc: svc}
}

// Definition returns the MCP tool definition for hospital_impact.
func (t *ImpactTool) Definition() mcp.Tool {
	return mcp.NewTool("hospital_impact",
		mcp.WithDescription("Show the estimated hospital-wide savings from preventing readmissions."),
	)
}

// Handle processes the hospital_impact tool call.
func (t *ImpactTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess, errResult := session(ctx, t.svc)
	if errResult != nil {
		return errResult, nil
	}

	var sb strings.Builder
	sb.WriteString("## Overall Hospital Impact\n\n")
	sb.WriteString(fmt.Sprintf("- **Patients**: %d\n", sess.Impact.Patients))
	sb.WriteString(fmt.Sprintf("- **Estimated Overall Savings**: %s\n", report.Money(sess.Impact.Capped)))
	if sess.Impact.CapApplied {
		sb.WriteString(fmt.Sprintf("- **Uncapped Total**: %s (ceiling applied)\n", report.Money(sess.Impact.Total)))
	}
	sb.WriteString(fmt.Sprintf("- **Readmission Model**: %s\n", sess.ModelStatus))
	if sess.Degraded() {
		sb.WriteString(fmt.Sprintf("- **Probability Source**: fallback (%s)\n", sess.Prediction.Reason()))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ExplainTool handles the explain_patient MCP tool.
type ExplainTool struct {
	svc *pipeline.Service
}

// NewExplainTool creates an ExplainTool.
func NewExplainTool(svc *pipeline.Service) *ExplainTool {
	return &ExplainTool{svc: svc}
}

// Definition returns the MCP tool definition for explain_patient.
func (t *ExplainTool) Definition() mcp.Tool {
	return mcp.NewTool("explain_patient",
		mcp.WithDescription("Rank the features driving one patient's readmission prediction."),
		mcp.WithString("patient_id",
			mcp.Required(),
			mcp.Description("Patient identifier"),
		),
	)
}

// Handle processes the explain_patient tool call.
func (t *ExplainTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	patientID := req.GetString("patient_id", "")
	if patientID == "" {
		return mcp.NewToolResultError("patient_id is required"), nil
	}
	sess, errResult := session(ctx, t.svc)
	if errResult != nil {
		return errResult, nil
	}

	var sb strings.Builder
	ex, err := t.svc.Explain(ctx, sess, patientID)
	switch {
	case errors.Is(err, explain.ErrUnavailable):
		terms, bErr := t.svc.Breakdown(sess, patientID)
		if bErr != nil {
			return patientError(patientID, bErr), nil
		}
		sb.WriteString("Model explanation unavailable.\n\n## Composite Score Breakdown\n\n")
		for _, c := range terms {
			sb.WriteString(fmt.Sprintf("- `%s` %+.4f (value %s, weight %.2f)\n",
				c.Feature, c.Contribution, report.Grouped(c.Value, 2), c.Weight))
		}
	case err != nil:
		return patientError(patientID, err), nil
	default:
		sb.WriteString("## Feature Contributions\n\n")
		for _, c := range ex.Contributions {
			sb.WriteString(fmt.Sprintf("- `%s` %+.4f\n", c.Feature, c.Value))
		}
		if len(ex.Filled) > 0 {
			sb.WriteString(fmt.Sprintf("\n_Not in source, treated as 0: %s_\n", strings.Join(ex.Filled, ", ")))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/surface"
)

type reportOpts struct {
	patientID string
	format    string
	pdf       bool
	outDir    string
}

func newReportCmd(g *globalOpts) *cobra.Command {
	var opts reportOpts

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show one patient's risk view and clinical report",
		Long: `Renders the selected patient's details, risk assessment, impact, readmission
alert and structured report. With --pdf, also writes <name>_summary.pdf.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.patientID, "patient", "", "Patient ID (required)")
	cmd.Flags().StringVar(&opts.format, "format", "terminal", "Output format: terminal, text, json or markdown")
	cmd.Flags().BoolVar(&opts.pdf, "pdf", false, "Also export the patient PDF")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", ".", "Directory for the exported PDF")
	_ = cmd.MarkFlagRequired("patient")

	return cmd
}

func runReport(ctx context.Context, g *globalOpts, opts reportOpts) error {
	s, err := openSession(ctx, g)
	if err != nil {
		return err
	}
	defer s.Close()

	switch opts.format {
	case "text", "json":
		data, err := s.svc.Report(ctx, s.sess, opts.patientID, opts.format)
		if err != nil {
			return err
		}
		if _, err := os.Stdout.Write(data); err != nil {
			return err
		}
	case "terminal", "markdown":
		view, err := s.svc.View(ctx, s.sess, opts.patientID)
		if err != nil {
			return err
		}
		var r surface.Renderer = &surface.TerminalRenderer{}
		if opts.format == "markdown" {
			r = &surface.MarkdownRenderer{}
		}
		if err := r.Render(os.Stdout, view); err != nil {
			return fmt.Errorf("rendering: %w", err)
		}
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	if !opts.pdf {
		return nil
	}
	return writePDF(ctx, s, opts.patientID, opts.outDir)
}

func writePDF(ctx context.Context, s *session, patientID, outDir string) error {
	out, err := s.svc.ExportPDF(ctx, s.sess, patientID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(outDir, out.FileName)
	if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	fmt.Fprintf(os.Stderr, "PDF saved: %s\n", path)
	if out.StorageKey != "" {
		fmt.Fprintf(os.Stderr, "  Archived as %s (export %s)\n", out.StorageKey, out.ID)
	}
	return nil
}


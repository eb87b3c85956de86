package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/export"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

func newExportCmd(g *globalOpts) *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the scored cohort",
		Long: `Writes every scored patient to an XLSX workbook (Patients and Summary
sheets), or to a JSON table that can be loaded back with --driver json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), g, out, format)
		},
	}

	cmd.Flags().StringVar(&out, "out", "cohort.xlsx", "Output file")
	cmd.Flags().StringVar(&format, "format", "xlsx", "Output format: xlsx or json")

	return cmd
}

func runExport(ctx context.Context, g *globalOpts, out, format string) error {
	s, err := openSession(ctx, g)
	if err != nil {
		return err
	}
	defer s.Close()

	switch format {
	case "json":
		if err := admission.SaveTable(out, s.sess.Table); err != nil {
			return err
		}
	case "xlsx":
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		err = export.WriteXLSX(f, export.Cohort{
			Records:  s.sess.Table.Records,
			Impact:   s.sess.Impact,
			Degraded: s.sess.Degraded(),
		})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export format %q", format)
	}

	fmt.Fprintf(os.Stderr, "Exported %d patients: %s\n", s.sess.Table.Len(), out)
	return nil
}

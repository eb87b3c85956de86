package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/report"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/surface"
)

func newScoreCmd(g *globalOpts) *cobra.Command {
	var (
		outputFmt string
		top       int
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every patient and show the cohort impact",
		Long:  `Loads the admissions table, computes risk scores, readmission probabilities and savings, and lists patients by risk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.Context(), g, outputFmt, top)
		},
	}

	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	cmd.Flags().IntVar(&top, "top", 0, "Only show the N highest-risk patients (0 for all)")

	return cmd
}

func runScore(ctx context.Context, g *globalOpts, outputFmt string, top int) error {
	s, err := openSession(ctx, g)
	if err != nil {
		return err
	}
	defer s.Close()

	records := append([]admission.Record(nil), s.sess.Table.Records...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].RiskScore > records[j].RiskScore })
	if top > 0 && top < len(records) {
		records = records[:top]
	}

	switch outputFmt {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"patients":           records,
			"impact":             s.sess.Impact,
			"probability_source": s.sess.Prediction.Source,
		}); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	case "text", "":
		return writeScoreTable(os.Stdout, records, s.sess.Impact.Capped)
	default:
		return fmt.Errorf("unknown output format %q", outputFmt)
	}
}

func writeScoreTable(w io.Writer, records []admission.Record, overall float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATIENT\tNAME\tSCORE\tLEVEL\tREADMISSION\tSAVING")
	for i := range records {
		rec := &records[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.PatientID,
			report.Name(rec),
			report.Percent(rec.RiskScore, 2),
			rec.RiskLevel,
			surface.Alert(rec),
			report.Money(rec.ExpectedSaving),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nEstimated Overall Savings: %s\n", report.Money(overall))
	return nil
}

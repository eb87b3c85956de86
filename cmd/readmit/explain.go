package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
)

func newExplainCmd(g *globalOpts) *cobra.Command {
	var (
		patientID string
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Rank the features behind one patient's readmission prediction",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), g, patientID, outputFmt)
		},
	}

	cmd.Flags().StringVar(&patientID, "patient", "", "Patient ID (required)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("patient")

	return cmd
}

func runExplain(ctx context.Context, g *globalOpts, patientID, outputFmt string) error {
	s, err := openSession(ctx, g)
	if err != nil {
		return err
	}
	defer s.Close()

	ex, err := s.svc.Explain(ctx, s.sess, patientID)
	unavailable := errors.Is(err, explain.ErrUnavailable)
	if err != nil && !unavailable {
		return err
	}

	if unavailable {
		terms, err := s.svc.Breakdown(s.sess, patientID)
		if err != nil {
			return err
		}
		if outputFmt == "json" {
			return encodeJSON(map[string]any{"status": "unavailable", "composite_breakdown": terms})
		}
		fmt.Println("Model explanation: unavailable")
		fmt.Println()
		fmt.Println("Composite score breakdown:")
		for _, c := range terms {
			fmt.Printf("  (%+.4f) %s\n", c.Contribution, c.Feature)
		}
		return nil
	}

	if outputFmt == "json" {
		return encodeJSON(map[string]any{"status": "ok", "explanation": ex})
	}
	fmt.Println("Feature contributions:")
	for _, c := range ex.Contributions {
		fmt.Printf("  (%+.4f) %s\n", c.Value, c.Feature)
	}
	if len(ex.Filled) > 0 {
		fmt.Printf("  not in source, treated as 0: %v\n", ex.Filled)
	}
	return nil
}

func encodeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// Package main provides the readmit CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOpts

	rootCmd := &cobra.Command{
		Use:   "readmit",
		Short: "Hospital readmission risk scoring and reporting",
		Long: `readmit loads admission records, computes a composite risk score and a
readmission probability for every patient, estimates the savings from
preventing readmissions, and renders per-patient clinical reports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to config file (default: search for .readmit/config.yaml)")
	pf.StringVar(&opts.sourcePath, "source", "", "Override the admissions source path (sqlite or json)")
	pf.StringVar(&opts.driver, "driver", "", "Override the source driver: sqlite, postgres or json")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newScoreCmd(&opts),
		newReportCmd(&opts),
		newExplainCmd(&opts),
		newExportCmd(&opts),
		newServeCmd(&opts),
		newMCPCmd(&opts),
		newMigrateCmd(&opts),
	)
	return rootCmd
}

package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/logging"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/mcptools"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
)

func newMCPCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve readmit tools over MCP on stdio",
		Long:  `Runs an MCP server on stdin/stdout exposing list_patients, patient_report, hospital_impact and explain_patient.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(g)
			if err != nil {
				return err
			}
			// stdout carries the protocol, so logs must go to stderr.
			logger, err := logging.New(cfg.Logging.Level, "console", "readmit-mcp")
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			svc, closeFn, err := pipeline.Build(cmd.Context(), cfg, logger)
			defer closeFn()
			if err != nil {
				return err
			}

			return server.ServeStdio(mcptools.NewServer(svc, version))
		},
	}
}

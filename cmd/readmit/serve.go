package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/api"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/logging"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
)

func newServeCmd(g *globalOpts) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start a local API server over the admissions source",
		Long: `Starts an HTTP server on localhost serving the patient list, reports,
PDF exports and cohort impact. Use readmitd for deployed instances.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), g, port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "7700", "Port to serve on")

	return cmd
}

func runServe(ctx context.Context, g *globalOpts, port string) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "readmit")
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	svc, closeFn, err := pipeline.Build(ctx, cfg, logger)
	defer closeFn()
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	api.NewHandler(svc, logger).RegisterRoutes(mux)
	handler := api.Chain(mux, api.CORS(cfg.Server.CORSOrigin))

	fmt.Fprintf(os.Stderr, "readmit API server\n")
	fmt.Fprintf(os.Stderr, "  Source:     %s\n", describeSource(cfg.Source))
	fmt.Fprintf(os.Stderr, "  Model:      %s\n", svc.ModelStatus())
	fmt.Fprintf(os.Stderr, "  Listening:  http://localhost:%s\n", port)

	return http.ListenAndServe(":"+port, handler)
}

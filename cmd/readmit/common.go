package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/logging"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

// globalOpts are the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	sourcePath string
	driver     string
	logLevel   string
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(opts *globalOpts) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			path = config.FindConfigFile(wd)
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Source.Driver = firstNonEmpty(opts.driver, cfg.Source.Driver)
	cfg.Source.Path = firstNonEmpty(opts.sourcePath, cfg.Source.Path)
	cfg.Logging.Level = firstNonEmpty(opts.logLevel, cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session wires the pipeline from configuration and runs one analysis.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	svc    *pipeline.Service
	sess   *pipeline.Session
	close  func() error
}

func openSession(ctx context.Context, opts *globalOpts) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "readmit")
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc, closeFn, err := pipeline.Build(ctx, cfg, logger)
	if err != nil {
		_ = closeFn()
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Loading admissions (%s)...\n", describeSource(cfg.Source))
	sess, err := svc.Analyze(ctx)
	if err != nil {
		_ = closeFn()
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "  %d patients, %s\n", sess.Table.Len(), sess.ModelStatus)
	if sess.Degraded() {
		fmt.Fprintf(os.Stderr, "  Readmission probability from risk score (%s)\n", sess.Prediction.Reason())
	}

	return &session{cfg: cfg, logger: logger, svc: svc, sess: sess, close: closeFn}, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: closing connections: %v\n", err)
	}
	_ = s.logger.Sync()
}

func describeSource(src config.SourceConfig) string {
	if src.Driver == config.DriverPostgres {
		return "postgres table " + src.Table
	}
	return src.Driver + " " + src.Path
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

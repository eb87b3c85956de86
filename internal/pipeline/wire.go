package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/archive"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/reportcache"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/source"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/storage"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/model"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/scoring"
)

// oracle is a model that both classifies and explains.
type oracle interface {
	FeatureNames() []string
	PredictProbability(ctx context.Context, rows [][]float64) ([]float64, error)
	RequiredFeatures() ([]string, error)
	Attribute(ctx context.Context, rows [][]float64) ([][]float64, error)
}

// Build wires a Service from configuration. Optional collaborators that
// fail to initialize are logged and left out; only the admissions source
// is required. The returned close function releases every connection.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, func() error, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	src, closeSrc, err := source.Open(ctx, cfg.Source, logger)
	if err != nil {
		return nil, closeAll, err
	}
	closers = append(closers, closeSrc)
	if cfg.Cache.Entries > 0 {
		src = source.NewCached(src, source.NewTableCache(cfg.Cache.Entries), logger)
	}

	opts := Options{Logger: logger}

	if m := loadModel(ctx, cfg.Model, cfg.ModelTimeout(), logger); m != nil {
		opts.Classifier = m
		opts.Explainer = m
	}

	localDir := config.ReportDir(cfg.Source.Path)
	store, err := storage.Open(ctx, cfg.Storage, localDir)
	if err != nil {
		logger.Warn("report storage unavailable, pdf archiving disabled", zap.Error(err))
	} else if store != nil {
		opts.Store = store
	}

	if cfg.Archive.DSN != "" {
		db, err := sql.Open("postgres", cfg.Archive.DSN)
		if err == nil {
			err = db.PingContext(ctx)
		}
		if err != nil {
			logger.Warn("archive database unavailable, export ledger disabled", zap.Error(err))
			if db != nil {
				db.Close()
			}
		} else {
			closers = append(closers, db.Close)
			opts.Ledger = archive.NewService(db)
		}
	}

	if cfg.Cache.RedisAddr != "" {
		rc := reportcache.New(reportcache.NewClient(cfg.Cache.RedisAddr), cfg.CacheTTL(), logger)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, narrative cache disabled",
				zap.String("addr", cfg.Cache.RedisAddr),
				zap.Error(err),
			)
			rc.Close()
		} else {
			closers = append(closers, rc.Close)
			opts.Cache = rc
		}
	}

	svc := NewService(src, scoring.NewScorer(cfg.Scoring.Weights), cfg.Impact, opts)
	return svc, closeAll, nil
}

// loadModel returns the configured model, or nil when none is configured or
// it cannot be loaded. A local coefficient file wins over a remote service.
func loadModel(ctx context.Context, cfg config.ModelConfig, timeout time.Duration, logger *zap.Logger) oracle {
	switch {
	case cfg.Path != "":
		m, err := model.LoadLogistic(cfg.Path)
		if err != nil {
			logger.Warn("readmission model not found", zap.String("path", cfg.Path), zap.Error(err))
			return nil
		}
		logger.Info("readmission model loaded", zap.String("path", cfg.Path))
		return m
	case cfg.URL != "":
		m, err := model.NewRemote(ctx, model.RemoteConfig{
			BaseURL:    cfg.URL,
			Timeout:    timeout,
			RetryCount: cfg.Retries,
			APIKey:     cfg.APIKey,
		}, logger)
		if err != nil {
			logger.Warn("remote readmission model unavailable", zap.String("url", cfg.URL), zap.Error(err))
			return nil
		}
		return m
	default:
		return nil
	}
}

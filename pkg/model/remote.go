package model

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RemoteConfig configures a Remote model client.
type RemoteConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	APIKey     string
}

// Remote calls a model service over HTTP.
//
//	GET  /v1/model      -> {"name": "...", "features": [...]}
//	POST /v1/predict    {"rows": [[...]]} -> {"probabilities": [...]}
//	POST /v1/attribute  {"rows": [[...]]} -> {"contributions": [[...]]}
type Remote struct {
	http     *resty.Client
	logger   *zap.Logger
	name     string
	features []string
}

type modelInfo struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
}

type rowsRequest struct {
	Rows [][]float64 `json:"rows"`
}

type predictResponse struct {
	Probabilities []float64 `json:"probabilities"`
}

type attributeResponse struct {
	Contributions [][]float64 `json:"contributions"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRemote connects to a model service and fetches its feature list.
func NewRemote(ctx context.Context, cfg RemoteConfig, logger *zap.Logger) (*Remote, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	r := &Remote{http: client, logger: logger}

	var info modelInfo
	var apiErr errorResponse
	resp, err := client.R().
		SetContext(ctx).
		SetResult(&info).
		SetError(&apiErr).
		Get("/v1/model")
	if err != nil {
		return nil, fmt.Errorf("fetching model info: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching model info: %s: %s", resp.Status(), apiErr.Error)
	}
	if len(info.Features) == 0 {
		return nil, fmt.Errorf("model service reports no features")
	}

	r.name = info.Name
	r.features = info.Features
	logger.Info("remote model connected",
		zap.String("base_url", cfg.BaseURL),
		zap.String("model", info.Name),
		zap.Strings("features", info.Features),
	)
	return r, nil
}

// Name returns the model name reported by the service.
func (r *Remote) Name() string {
	return r.name
}

// FeatureNames returns the feature order reported by the service.
func (r *Remote) FeatureNames() []string {
	return r.features
}

// RequiredFeatures returns the feature order reported by the service.
func (r *Remote) RequiredFeatures() ([]string, error) {
	if len(r.features) == 0 {
		return nil, fmt.Errorf("model service reports no features")
	}
	return r.features, nil
}

// PredictProbability posts rows to /v1/predict.
func (r *Remote) PredictProbability(ctx context.Context, rows [][]float64) ([]float64, error) {
	var out predictResponse
	if err := r.post(ctx, "/v1/predict", rows, &out); err != nil {
		return nil, err
	}
	return out.Probabilities, nil
}

// Attribute posts rows to /v1/attribute.
func (r *Remote) Attribute(ctx context.Context, rows [][]float64) ([][]float64, error) {
	var out attributeResponse
	if err := r.post(ctx, "/v1/attribute", rows, &out); err != nil {
		return nil, err
	}
	return out.Contributions, nil
}

func (r *Remote) post(ctx context.Context, path string, rows [][]float64, result any) error {
	var apiErr errorResponse
	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(rowsRequest{Rows: rows}).
		SetResult(result).
		SetError(&apiErr).
		Post(path)
	if err != nil {
		r.logger.Warn("model service call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("calling %s: %w", path, err)
	}
	if resp.IsError() {
		r.logger.Warn("model service returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("error", apiErr.Error),
		)
		return fmt.Errorf("calling %s: %s: %s", path, resp.Status(), apiErr.Error)
	}
	return nil
}

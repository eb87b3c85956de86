// Command readmitd is the readmit HTTP service.
// It serves the patient risk API, Prometheus metrics and a health check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/internal/api"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/logging"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/metrics"
	"github.com/karnalakavya0/hospital-readmission-proj/internal/pipeline"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

// loadConfig reads READMIT_CONFIG and applies environment overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Logging.Format = "json"
	if path := os.Getenv("READMIT_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Server.Addr = envOrDefault("READMIT_ADDR", cfg.Server.Addr)
	cfg.Server.APIKey = envOrDefault("READMIT_API_KEY", cfg.Server.APIKey)
	cfg.Source.Driver = envOrDefault("READMIT_SOURCE_DRIVER", cfg.Source.Driver)
	cfg.Source.Path = envOrDefault("READMIT_SOURCE_PATH", cfg.Source.Path)
	cfg.Source.DSN = envOrDefault("DATABASE_URL", cfg.Source.DSN)
	cfg.Archive.DSN = envOrDefault("READMIT_ARCHIVE_DSN", cfg.Archive.DSN)
	cfg.Cache.RedisAddr = envOrDefault("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Model.URL = envOrDefault("READMIT_MODEL_URL", cfg.Model.URL)
	cfg.Logging.Level = envOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = envOrDefault("LOG_FORMAT", cfg.Logging.Format)
	if v := os.Getenv("READMIT_TRUST_PROXY"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.Server.TrustProxy = parsed
		}
	}
	if v := os.Getenv("READMIT_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Server.RateLimit = parsed
		}
	}
	return cfg, cfg.Validate()
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, "readmitd")
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, closeFn, err := pipeline.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build pipeline", zap.Error(err))
	}
	defer closeFn()

	// Warm the first session so configuration errors surface at startup.
	if _, err := svc.Current(ctx); err != nil {
		logger.Fatal("initial analysis", zap.Error(err))
	}

	mux := http.NewServeMux()
	api.NewHandler(svc, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", healthHandler(svc))

	middlewares := []func(http.Handler) http.Handler{
		metrics.Middleware,
		api.RequestLogger(logger),
		api.CORS(cfg.Server.CORSOrigin),
	}
	if cfg.Server.RateLimit > 0 {
		limiter := api.NewIPRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
		limiter.TrustProxy = cfg.Server.TrustProxy
		middlewares = append(middlewares, limiter.Middleware)
	}
	middlewares = append(middlewares, apiKeyExceptProbes(cfg.Server.APIKey))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Chain(mux, middlewares...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting readmitd", zap.String("addr", cfg.Server.Addr), zap.String("model", svc.ModelStatus()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

// apiKeyExceptProbes guards everything except /healthz and /metrics.
func apiKeyExceptProbes(key string) func(http.Handler) http.Handler {
	auth := api.APIKeyAuth(key)
	return func(next http.Handler) http.Handler {
		guarded := auth(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func healthHandler(svc *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := svc.Current(r.Context())
		if err != nil {
			http.Error(w, "admissions source unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":       "ok",
			"patients":     sess.Table.Len(),
			"model_status": sess.ModelStatus,
		})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

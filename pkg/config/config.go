// Package config handles loading and managing readmit configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/scoring"
)

// Source drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
)

// Config is the top-level configuration for readmit.
type Config struct {
	Source  SourceConfig     `yaml:"source"`
	Scoring ScoringConfig    `yaml:"scoring"`
	Impact  impact.Estimator `yaml:"impact"`
	Model   ModelConfig      `yaml:"model"`
	Storage StorageConfig    `yaml:"storage"`
	Archive ArchiveConfig    `yaml:"archive"`
	Cache   CacheConfig      `yaml:"cache"`
	Logging LoggingConfig    `yaml:"logging"`
	Server  ServerConfig     `yaml:"server"`
}

// SourceConfig selects where admissions are loaded from.
type SourceConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres or json
	Path   string `yaml:"path"`   // sqlite database or json fixture
	DSN    string `yaml:"dsn"`    // postgres connection string
	Table  string `yaml:"table"`
}

// ScoringConfig controls the composite risk score.
type ScoringConfig struct {
	Weights scoring.Weights `yaml:"weights"`
}

// ModelConfig locates the optional readmission model. Path takes precedence
// over URL; with neither set the classifier runs in fallback mode.
type ModelConfig struct {
	Path    string `yaml:"path"` // logistic coefficient file
	URL     string `yaml:"url"`  // remote model service
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"` // seconds
	Retries int    `yaml:"retries"`
}

// StorageConfig controls where exported PDFs are archived.
type StorageConfig struct {
	Backend  string `yaml:"backend"` // local, s3, gcs or "" to disable
	Dir      string `yaml:"dir"`
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"` // S3-compatible endpoint override
}

// ArchiveConfig controls the Postgres ledger of exported reports.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// CacheConfig controls the admissions load cache and the narrative cache.
type CacheConfig struct {
	Entries   int    `yaml:"entries"`
	RedisAddr string `yaml:"redis_addr"`
	TTL       int    `yaml:"ttl"` // seconds
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// ServerConfig controls the HTTP service.
type ServerConfig struct {
	Addr       string  `yaml:"addr"`
	APIKey     string  `yaml:"api_key"`
	CORSOrigin string  `yaml:"cors_origin"`
	RateLimit  float64 `yaml:"rate_limit"` // requests per second, 0 disables
	RateBurst  int     `yaml:"rate_burst"`
	TrustProxy bool    `yaml:"trust_proxy"` // key rate limits by X-Forwarded-For
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Driver: DriverSQLite,
			Path:   "hospital.db",
			Table:  "admissions_scored",
		},
		Scoring: ScoringConfig{Weights: scoring.DefaultWeights()},
		Impact:  impact.DefaultEstimator(),
		Model: ModelConfig{
			Timeout: 10,
			Retries: 2,
		},
		Cache: CacheConfig{
			Entries: 4,
			TTL:     3600,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
			RateBurst: 40,
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks option values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Source.Driver {
	case DriverSQLite, DriverJSON:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for driver %q", c.Source.Driver)
		}
	case DriverPostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for driver %q", c.Source.Driver)
		}
	default:
		return fmt.Errorf("unknown source.driver %q", c.Source.Driver)
	}
	if err := c.Scoring.Weights.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	switch c.Storage.Backend {
	case "", "local", "s3", "gcs":
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}
	return nil
}

// ModelTimeout returns the model call timeout as a duration.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.Timeout) * time.Second
}

// CacheTTL returns the narrative cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

// FindConfigFile looks for .readmit/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".readmit", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the cache directory for a given data source path.
// Uses ~/.cache/readmit/<source-slug>/ to keep exports out of the data dir.
func CacheDir(sourcePath string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".cache", "readmit", sourceSlug(sourcePath))
}

// ReportDir returns the local PDF archive directory for a data source.
func ReportDir(sourcePath string) string {
	return filepath.Join(CacheDir(sourcePath), "reports")
}

// sourceSlug creates a filesystem-safe identifier from a source path using
// its parent directory and base name, e.g. "data_hospital.db".
func sourceSlug(sourcePath string) string {
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		abs = sourcePath
	}
	dir := filepath.Base(filepath.Dir(abs))
	base := filepath.Base(abs)
	return dir + "_" + base
}

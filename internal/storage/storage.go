// Package storage archives exported patient report PDFs in blob storage:
// the local filesystem, S3 or Google Cloud Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/config"
)

// ErrNotFound is returned when a report blob does not exist.
var ErrNotFound = errors.New("report not found")

// ReportStore abstracts blob storage for exported reports.
type ReportStore interface {
	// PutReport stores a PDF and returns its storage key.
	PutReport(ctx context.Context, patientID, exportID string, data []byte) (string, error)
	// GetReport retrieves a PDF by storage key.
	GetReport(ctx context.Context, key string) ([]byte, error)
}

// ReportKey builds the storage key for an export:
// reports/<patient>/<export>.pdf under an optional prefix.
func ReportKey(prefix, patientID, exportID string) string {
	key := "reports/" + safeSegment(patientID) + "/" + safeSegment(exportID) + ".pdf"
	if prefix == "" {
		return key
	}
	return strings.TrimSuffix(prefix, "/") + "/" + key
}

// safeSegment keeps a key segment from escaping its directory.
func safeSegment(s string) string {
	s = strings.NewReplacer("/", "_", "\\", "_").Replace(s)
	if s == "" || s == "." || s == ".." {
		return "_"
	}
	return s
}

// LocalStorage implements ReportStore using the local filesystem.
// Useful for development and single-host deployments.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) PutReport(_ context.Context, patientID, exportID string, data []byte) (string, error) {
	key := ReportKey("", patientID, exportID)
	path := filepath.Join(s.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalStorage) GetReport(_ context.Context, key string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid report key %q", key)
	}
	data, err := os.ReadFile(filepath.Join(s.BaseDir, clean))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

// Open builds the ReportStore described by cfg. It returns nil when archiving
// is disabled. localDefault is used when the local backend has no dir.
func Open(ctx context.Context, cfg config.StorageConfig, localDefault string) (ReportStore, error) {
	switch cfg.Backend {
	case "":
		return nil, nil
	case "local":
		dir := cfg.Dir
		if dir == "" {
			dir = localDefault
		}
		return NewLocalStorage(dir), nil
	case "s3":
		s, err := NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Prefix:    cfg.Prefix,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "gcs":
		s, err := NewGCSStorage(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Package archive keeps a Postgres ledger of exported patient report PDFs
// so earlier exports can be listed and re-downloaded from blob storage.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an export does not exist.
var ErrNotFound = errors.New("export not found")

// Service records report exports backed by Postgres.
type Service struct {
	db *sql.DB
}

// Export is one archived report PDF.
type Export struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	RiskScore   float64   `json:"risk_score"`
	RiskLevel   string    `json:"risk_level"`
	ReadmitProb float64   `json:"readmit_prob"`
	ReadmitFlag string    `json:"readmit_flag"`
	ProbSource  string    `json:"prob_source"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewService creates a new archive Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// NewExportID returns a fresh export identifier.
func NewExportID() string {
	return uuid.NewString()
}

// Record inserts an export row. CreatedAt is filled from the database.
func (s *Service) Record(ctx context.Context, e *Export) error {
	if e.ID == "" {
		e.ID = NewExportID()
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO report_exports
		   (id, patient_id, file_name, storage_key, risk_score, risk_level,
		    readmit_prob, readmit_flag, prob_source, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		e.ID, e.PatientID, e.FileName, e.StorageKey, e.RiskScore, e.RiskLevel,
		e.ReadmitProb, e.ReadmitFlag, e.ProbSource, e.SizeBytes,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("record export for %s: %w", e.PatientID, err)
	}
	return nil
}

// Get retrieves an export by ID.
func (s *Service) Get(ctx context.Context, id string) (*Export, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	e := &Export{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, patient_id, file_name, storage_key, risk_score, risk_level,
		        readmit_prob, readmit_flag, prob_source, size_bytes, created_at
		 FROM report_exports WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.PatientID, &e.FileName, &e.StorageKey, &e.RiskScore, &e.RiskLevel,
		&e.ReadmitProb, &e.ReadmitFlag, &e.ProbSource, &e.SizeBytes, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get export %s: %w", id, err)
	}
	return e, nil
}

// ListForPatient returns a patient's exports, newest first.
func (s *Service) ListForPatient(ctx context.Context, patientID string, limit int) ([]Export, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, patient_id, file_name, storage_key, risk_score, risk_level,
		        readmit_prob, readmit_flag, prob_source, size_bytes, created_at
		 FROM report_exports WHERE patient_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		patientID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var exports []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.PatientID, &e.FileName, &e.StorageKey, &e.RiskScore, &e.RiskLevel,
			&e.ReadmitProb, &e.ReadmitFlag, &e.ProbSource, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}

package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLite reads admissions from a table in a SQLite database file.
type SQLite struct {
	path   string
	table  string
	logger *zap.Logger
}

// NewSQLite creates a SQLite source.
func NewSQLite(path, table string, logger *zap.Logger) *SQLite {
	return &SQLite{path: path, table: table, logger: logger}
}

func (s *SQLite) Name() string {
	return "sqlite:" + s.path
}

// Load reads every row of the configured table.
func (s *SQLite) Load(ctx context.Context) (*admission.Table, error) {
	// Opening a missing file would silently create an empty database.
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("admissions database: %w", err)
	}

	db, err := openDB("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("configuring %s: %w", s.path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return nil, fmt.Errorf("configuring %s: %w", s.path, err)
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(s.table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", s.table, err)
	}
	defer rows.Close()

	t, skipped, err := scanTable(rows)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.table, err)
	}
	logSkipped(s.logger, s.Name(), skipped)
	return t, nil
}

// Fingerprint returns path, modification time and size of the database.
func (s *SQLite) Fingerprint(_ context.Context) (string, error) {
	return fileFingerprint(s.path)
}

package source

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Postgres reads admissions from a Postgres table created by the platform
// migrations.
type Postgres struct {
	db     *sql.DB
	table  string
	logger *zap.Logger
}

// NewPostgres creates a Postgres source over an open connection pool.
func NewPostgres(db *sql.DB, table string, logger *zap.Logger) *Postgres {
	return &Postgres{db: db, table: table, logger: logger}
}

func (p *Postgres) Name() string {
	return "postgres:" + p.table
}

// Load reads every row of the configured table.
func (p *Postgres) Load(ctx context.Context) (*admission.Table, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT * FROM "+quoteIdent(p.table))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", p.table, err)
	}
	defer rows.Close()

	t, skipped, err := scanTable(rows)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", p.table, err)
	}
	logSkipped(p.logger, p.Name(), skipped)
	return t, nil
}

// Fingerprint combines the row count with the latest updated_at.
func (p *Postgres) Fingerprint(ctx context.Context) (string, error) {
	var count int64
	var latest string
	err := p.db.QueryRowContext(ctx,
		"SELECT count(*), COALESCE(max(updated_at)::text, '') FROM "+quoteIdent(p.table),
	).Scan(&count, &latest)
	if err != nil {
		return "", fmt.Errorf("fingerprinting %s: %w", p.table, err)
	}
	return fmt.Sprintf("%s:%d:%s", p.table, count, latest), nil
}

// Package source loads admission tables from SQLite, Postgres or JSON
// fixtures, and caches loads keyed by a fingerprint of the underlying data.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Source is a data source collaborator that yields admission tables.
type Source interface {
	// Name identifies the source, e.g. "sqlite:/data/hospital.db".
	Name() string
	// Load reads the full admissions table.
	Load(ctx context.Context) (*admission.Table, error)
	// Fingerprint returns a value that changes whenever the data changes.
	Fingerprint(ctx context.Context) (string, error)
}

// scanTable converts result rows into a table. Rows without a patient ID are
// skipped and counted.
func scanTable(rows *sql.Rows) (*admission.Table, int, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, 0, fmt.Errorf("reading columns: %w", err)
	}

	t := &admission.Table{Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	skipped := 0
	for rows.Next() {
		for i := range vals {
			vals[i] = nil
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, 0, fmt.Errorf("scanning row: %w", err)
		}
		rec := admission.Record{Values: make(map[string]float64, len(cols))}
		for i, c := range cols {
			assign(&rec, c, vals[i])
		}
		if rec.PatientID == "" {
			skipped++
			continue
		}
		t.Records = append(t.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating rows: %w", err)
	}
	return t, skipped, nil
}

func assign(rec *admission.Record, col string, v any) {
	if v == nil {
		return
	}
	switch col {
	case admission.ColPatientID:
		rec.PatientID = asString(v)
	case admission.ColName:
		rec.Name = asString(v)
	case admission.ColDisease:
		rec.Disease = asString(v)
	case admission.ColRecommendation:
		rec.Recommendation = asString(v)
	default:
		if f, ok := asFloat(v); ok {
			rec.Set(col, f)
		}
	}
}

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case []byte:
		return parseFloat(string(x))
	case string:
		return parseFloat(x)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// quoteIdent quotes a table name for SQLite and Postgres.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// fileFingerprint identifies a file version by absolute path, modification
// time and size. A SQLite write-ahead log next to the file is included.
func fileFingerprint(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	fp := fmt.Sprintf("%s@%d:%d", abs, info.ModTime().UnixNano(), info.Size())
	if wal, err := os.Stat(abs + "-wal"); err == nil {
		fp += fmt.Sprintf("+wal@%d:%d", wal.ModTime().UnixNano(), wal.Size())
	}
	return fp, nil
}

func logSkipped(logger *zap.Logger, name string, skipped int) {
	if skipped > 0 {
		logger.Warn("skipped admissions without patient_id",
			zap.String("source", name),
			zap.Int("skipped", skipped),
		)
	}
}

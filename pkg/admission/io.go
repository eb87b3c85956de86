package admission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SaveTable writes a table to disk as JSON.
func SaveTable(path string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for table: %w", err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling table: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing table: %w", err)
	}

	return nil
}

// LoadTable reads a JSON table from disk. When the file omits the column
// list, it is derived from the union of record values.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshaling table: %w", err)
	}

	if len(t.Columns) == 0 {
		t.Columns = deriveColumns(t.Records)
	}

	return &t, nil
}

func deriveColumns(records []Record) []string {
	cols := append([]string(nil), TextColumns...)
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	// Canonical columns first so the order is stable across runs.
	canonical := []string{ColAge, ColWBC, ColHeartRate}
	canonical = append(canonical, Comorbidities...)
	canonical = append(canonical, ColBP, ColTemperature, ColHaemoglobin)
	canonical = append(canonical, Medications...)
	for _, c := range canonical {
		for _, r := range records {
			if r.Has(c) {
				cols = append(cols, c)
				seen[c] = true
				break
			}
		}
	}
	var extra []string
	for _, r := range records {
		for c := range r.Values {
			if !seen[c] {
				seen[c] = true
				extra = append(extra, c)
			}
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

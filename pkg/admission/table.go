package admission

import "fmt"

// Table is the admissions dataset for one analysis session.
type Table struct {
	// Columns lists the columns present in the source, in source order.
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Records)
}

// HasColumn reports whether the source exposed col.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Find returns a pointer to the record for patientID. The pointer aliases the
// table, so derived fields set through it are visible to the table.
func (t *Table) Find(patientID string) (*Record, error) {
	for i := range t.Records {
		if t.Records[i].PatientID == patientID {
			return &t.Records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, patientID)
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, len(t.Records)),
	}
	for i, r := range t.Records {
		out.Records[i] = r.clone()
	}
	return out
}

// Patient is a (patient_id, name) pair used by patient pickers.
type Patient struct {
	ID   string `json:"patient_id"`
	Name string `json:"name"`
}

// Patients lists every patient in table order.
func (t *Table) Patients() []Patient {
	out := make([]Patient, 0, len(t.Records))
	for _, r := range t.Records {
		out = append(out, Patient{ID: r.PatientID, Name: r.Name})
	}
	return out
}

// Projection is a feature vector aligned to a requested feature list.
type Projection struct {
	Features []string
	Values   []float64
	// Filled lists the requested features the table does not expose; they
	// were zero-filled in Values.
	Filled []string
}

// Project aligns a record to features. Columns the table does not expose are
// zero-filled in the returned vector only; neither the table nor the record
// is modified.
func (t *Table) Project(r *Record, features []string) Projection {
	p := Projection{
		Features: append([]string(nil), features...),
		Values:   make([]float64, len(features)),
	}
	for i, f := range features {
		if !t.HasColumn(f) && !r.Has(f) {
			p.Filled = append(p.Filled, f)
			continue
		}
		p.Values[i] = r.Value(f)
	}
	return p
}

// Matrix builds one row per record with the given feature order, treating
// absent columns as 0.
func (t *Table) Matrix(features []string) [][]float64 {
	rows := make([][]float64, len(t.Records))
	for i := range t.Records {
		row := make([]float64, len(features))
		for j, f := range features {
			row[j] = t.Records[i].Value(f)
		}
		rows[i] = row
	}
	return rows
}

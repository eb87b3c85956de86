package source

import (
	"context"
	"fmt"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// JSONFile reads admissions from a JSON table fixture.
type JSONFile struct {
	path string
}

// NewJSONFile creates a JSON file source.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Name() string {
	return "json:" + j.path
}

func (j *JSONFile) Load(_ context.Context) (*admission.Table, error) {
	t, err := admission.LoadTable(j.path)
	if err != nil {
		return nil, err
	}
	for i, r := range t.Records {
		if r.PatientID == "" {
			return nil, fmt.Errorf("record %d in %s has no patient_id", i, j.path)
		}
	}
	return t, nil
}

func (j *JSONFile) Fingerprint(_ context.Context) (string, error) {
	return fileFingerprint(j.path)
}

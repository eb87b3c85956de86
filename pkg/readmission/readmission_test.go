package readmission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/readmission"
)

type stubClassifier struct {
	features []string
	probs    []float64
	err      error
	panics   bool
	rows     [][]float64
}

func (s *stubClassifier) FeatureNames() []string { return s.features }

func (s *stubClassifier) PredictProbability(_ context.Context, rows [][]float64) ([]float64, error) {
	s.rows = rows
	if s.panics {
		panic("boom")
	}
	return s.probs, s.err
}

func scored() []admission.Record {
	return []admission.Record{
		{PatientID: "p1", RiskScore: 80, Values: map[string]float64{admission.ColAge: 70, admission.ColDiabetes: 1}},
		{PatientID: "p2", RiskScore: 45, Values: map[string]float64{admission.ColAge: 30}},
	}
}

func TestFlagFromProbabilityBoundaries(t *testing.T) {
	tests := []struct {
		p    float64
		want admission.ReadmitFlag
	}{
		{0, admission.FlagLow},
		{0.399, admission.FlagLow},
		{0.4, admission.FlagModerate},
		{0.699, admission.FlagModerate},
		{0.7, admission.FlagHigh},
		{1, admission.FlagHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, readmission.FlagFromProbability(tt.p), "p=%v", tt.p)
	}
}

func TestPredictNilClassifierFallsBack(t *testing.T) {
	records := scored()
	res := readmission.Predict(context.Background(), records, nil)

	require.True(t, res.Degraded())
	assert.ErrorIs(t, res.Err, readmission.ErrNoClassifier)
	assert.Equal(t, []float64{0.8, 0.45}, res.Probabilities)
}

func TestPredictClassifierErrorFallsBack(t *testing.T) {
	records := scored()
	clf := &stubClassifier{features: readmission.Features, err: errors.New("model exploded")}

	res := readmission.Predict(context.Background(), records, clf)
	require.True(t, res.Degraded())
	assert.Contains(t, res.Reason(), "model exploded")

	readmission.Apply(records, res)
	for _, r := range records {
		assert.Equal(t, r.RiskScore/100, r.ReadmitProb)
	}
	assert.Equal(t, admission.FlagHigh, records[0].ReadmitFlag)
	assert.Equal(t, admission.FlagModerate, records[1].ReadmitFlag)
}

func TestPredictClassifierPanicFallsBack(t *testing.T) {
	clf := &stubClassifier{features: readmission.Features, panics: true}
	res := readmission.Predict(context.Background(), scored(), clf)

	require.True(t, res.Degraded())
	assert.ErrorIs(t, res.Err, readmission.ErrClassifierPanic)
}

func TestPredictRejectsInvalidOutput(t *testing.T) {
	tests := []struct {
		name  string
		probs []float64
	}{
		{"wrong length", []float64{0.5}},
		{"above one", []float64{0.5, 1.2}},
		{"negative", []float64{-0.1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clf := &stubClassifier{features: readmission.Features, probs: tt.probs}
			res := readmission.Predict(context.Background(), scored(), clf)
			require.True(t, res.Degraded())
			assert.ErrorIs(t, res.Err, readmission.ErrBadPrediction)
		})
	}
}

func TestPredictFeatureMismatchFallsBack(t *testing.T) {
	clf := &stubClassifier{features: []string{"agefactor", "WBC mean"}, probs: []float64{0.1, 0.2}}
	res := readmission.Predict(context.Background(), scored(), clf)

	require.True(t, res.Degraded())
	assert.ErrorIs(t, res.Err, readmission.ErrFeatureMismatch)
	assert.Nil(t, clf.rows, "classifier should not be invoked")
}

func TestPredictUsesModel(t *testing.T) {
	records := scored()
	clf := &stubClassifier{features: readmission.Features, probs: []float64{0.72, 0.1}}

	res := readmission.Predict(context.Background(), records, clf)
	require.False(t, res.Degraded())
	assert.Equal(t, readmission.SourceModel, res.Source)
	assert.Empty(t, res.Reason())

	// Rows follow the canonical feature order; absent columns are 0.
	require.Len(t, clf.rows, 2)
	assert.Equal(t, []float64{70, 0, 0, 1, 0}, clf.rows[0])

	readmission.Apply(records, res)
	assert.Equal(t, admission.FlagHigh, records[0].ReadmitFlag)
	assert.Equal(t, admission.FlagLow, records[1].ReadmitFlag)
}

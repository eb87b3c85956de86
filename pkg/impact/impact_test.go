package impact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/impact"
)

func TestIndividualSaving(t *testing.T) {
	e := impact.DefaultEstimator()
	assert.InDelta(t, 10500.0, e.IndividualSaving(100), 1e-9)
	assert.Equal(t, 0.0, e.IndividualSaving(0))
	assert.InDelta(t, 5250.0, e.IndividualSaving(50), 1e-9)
}

func TestIndividualSavingNonDecreasing(t *testing.T) {
	e := impact.DefaultEstimator()
	prev := e.IndividualSaving(0)
	for s := 1.0; s <= 100; s++ {
		cur := e.IndividualSaving(s)
		if cur < prev {
			t.Fatalf("saving decreased at score %v", s)
		}
		prev = cur
	}
}

func TestAggregateBelowCeiling(t *testing.T) {
	e := impact.DefaultEstimator()
	sum := e.Aggregate([]float64{100, 50, 0})
	assert.InDelta(t, 15750.0, sum.Total, 1e-9)
	assert.Equal(t, sum.Total, sum.Capped)
	assert.False(t, sum.CapApplied)
	assert.Equal(t, 3, sum.Patients)
}

func TestAggregateCeilingMillionPatients(t *testing.T) {
	e := impact.DefaultEstimator()
	scores := make([]float64, 1_000_000)
	for i := range scores {
		scores[i] = 100
	}
	sum := e.Aggregate(scores)
	// 1e6 * 10500 = 1.05e10, well above the ceiling.
	assert.Equal(t, 3.9e9, sum.Capped)
	assert.True(t, sum.CapApplied)
	assert.Greater(t, sum.Total, sum.Capped)
}

func TestAggregateCapAppliedOnceNotPerRecord(t *testing.T) {
	e := impact.Estimator{CostPerPatient: 100, PreventionSuccessRate: 1, Ceiling: 150}
	// Each patient alone is under the ceiling; only the sum exceeds it.
	sum := e.Aggregate([]float64{100, 100})
	assert.Equal(t, 200.0, sum.Total)
	assert.Equal(t, 150.0, sum.Capped)
}

func TestApplyWritesExpectedSaving(t *testing.T) {
	records := []admission.Record{{PatientID: "a", RiskScore: 100}, {PatientID: "b", RiskScore: 20}}
	sum := impact.DefaultEstimator().Apply(records)

	assert.InDelta(t, 10500.0, records[0].ExpectedSaving, 1e-9)
	assert.InDelta(t, 2100.0, records[1].ExpectedSaving, 1e-9)
	assert.InDelta(t, 12600.0, sum.Capped, 1e-9)
}

package scoring

import (
	"fmt"
	"math"
)

// Weights holds the coefficients of the composite risk formula.
type Weights struct {
	Age          float64 `yaml:"age" json:"age"`
	WBC          float64 `yaml:"wbc" json:"wbc"`
	HeartRate    float64 `yaml:"heart_rate" json:"heart_rate"`
	Diabetes     float64 `yaml:"diabetes" json:"diabetes"`
	Hypertension float64 `yaml:"hypertension" json:"hypertension"`
}

// Feature normalisers applied before weighting.
const (
	AgeScale       = 100.0
	WBCScale       = 20000.0
	HeartRateScale = 200.0
)

// DefaultWeights returns the default composite risk weights.
func DefaultWeights() Weights {
	return Weights{
		Age:          0.4,
		WBC:          0.8,
		HeartRate:    0.3,
		Diabetes:     1.5,
		Hypertension: 1.0,
	}
}

// Validate rejects non-finite weights.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"age":          w.Age,
		"wbc":          w.WBC,
		"heart_rate":   w.HeartRate,
		"diabetes":     w.Diabetes,
		"hypertension": w.Hypertension,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s is not finite", name)
		}
	}
	return nil
}

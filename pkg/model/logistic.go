// Package model provides concrete readmission oracles: a logistic model
// loaded from a coefficient file and a client for a remote model service.
// Both satisfy readmission.Classifier and explain.Explainer.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Logistic is a fitted logistic regression over named features.
type Logistic struct {
	Features     []string  `json:"features"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	// Means are the training-set feature means, used as the attribution
	// baseline. Missing means are treated as 0.
	Means []float64 `json:"means,omitempty"`
}

// LoadLogistic reads a logistic model from a JSON coefficient file.
func LoadLogistic(path string) (*Logistic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model: %w", err)
	}

	var m Logistic
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshaling model: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return &m, nil
}

// Validate checks that the coefficient vectors line up with the features.
func (m *Logistic) Validate() error {
	if len(m.Features) == 0 {
		return fmt.Errorf("no features")
	}
	if len(m.Coefficients) != len(m.Features) {
		return fmt.Errorf("%d coefficients for %d features", len(m.Coefficients), len(m.Features))
	}
	if len(m.Means) != 0 && len(m.Means) != len(m.Features) {
		return fmt.Errorf("%d means for %d features", len(m.Means), len(m.Features))
	}
	return nil
}

// FeatureNames returns the model's feature order.
func (m *Logistic) FeatureNames() []string {
	return m.Features
}

// RequiredFeatures returns the model's feature order.
func (m *Logistic) RequiredFeatures() ([]string, error) {
	return m.Features, nil
}

// PredictProbability returns sigmoid(intercept + w.x) per row.
func (m *Logistic) PredictProbability(_ context.Context, rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Features) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(m.Features))
		}
		z := m.Intercept
		for j, x := range row {
			z += m.Coefficients[j] * x
		}
		out[i] = 1 / (1 + math.Exp(-z))
	}
	return out, nil
}

// Attribute returns w_i * (x_i - mean_i) per feature, the exact additive
// attribution of a linear model's log-odds.
func (m *Logistic) Attribute(_ context.Context, rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if len(row) != len(m.Features) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(m.Features))
		}
		contrib := make([]float64, len(row))
		for j, x := range row {
			var mean float64
			if len(m.Means) > 0 {
				mean = m.Means[j]
			}
			contrib[j] = m.Coefficients[j] * (x - mean)
		}
		out[i] = contrib
	}
	return out, nil
}

package model_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/explain"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/model"
	"github.com/karnalakavya0/hospital-readmission-proj/pkg/readmission"
)

var (
	_ readmission.Classifier = (*model.Logistic)(nil)
	_ explain.Explainer      = (*model.Logistic)(nil)
	_ readmission.Classifier = (*model.Remote)(nil)
	_ explain.Explainer      = (*model.Remote)(nil)
)

func writeModel(t *testing.T, m any) string {
	t.Helper()
	data, err := json.Marshal(m)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadLogisticAndPredict(t *testing.T) {
	path := writeModel(t, map[string]any{
		"features":     readmission.Features,
		"intercept":    -1.0,
		"coefficients": []float64{0.02, 0.0001, 0.01, 0.5, 0.3},
		"means":        []float64{60, 9000, 85, 0.3, 0.4},
	})

	m, err := model.LoadLogistic(path)
	require.NoError(t, err)
	assert.Equal(t, readmission.Features, m.FeatureNames())

	probs, err := m.PredictProbability(context.Background(), [][]float64{{0, 0, 0, 0, 0}, {70, 12000, 110, 1, 1}})
	require.NoError(t, err)
	require.Len(t, probs, 2)
	assert.InDelta(t, 1/(1+math.Exp(1)), probs[0], 1e-12)
	assert.Greater(t, probs[1], probs[0])
}

func TestLogisticAttribute(t *testing.T) {
	m := &model.Logistic{
		Features:     []string{"a", "b"},
		Coefficients: []float64{2, -1},
		Means:        []float64{1, 1},
	}
	out, err := m.Attribute(context.Background(), [][]float64{{3, 4}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{4, -3}}, out)

	_, err = m.Attribute(context.Background(), [][]float64{{1}})
	assert.Error(t, err)
}

func TestLoadLogisticRejectsMismatch(t *testing.T) {
	path := writeModel(t, map[string]any{
		"features":     []string{"a", "b"},
		"coefficients": []float64{1},
	})
	_, err := model.LoadLogistic(path)
	assert.Error(t, err)

	_, err = model.LoadLogistic(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func newModelServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/model", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"name": "xgb-v3", "features": readmission.Features})
	})
	mux.HandleFunc("POST /v1/predict", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Rows [][]float64 `json:"rows"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		probs := make([]float64, len(req.Rows))
		for i := range probs {
			probs[i] = 0.25
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"probabilities": probs})
	})
	mux.HandleFunc("POST /v1/attribute", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "explainer warming up"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteModel(t *testing.T) {
	srv := newModelServer(t)
	ctx := context.Background()

	m, err := model.NewRemote(ctx, model.RemoteConfig{BaseURL: srv.URL}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "xgb-v3", m.Name())
	assert.Equal(t, readmission.Features, m.FeatureNames())

	probs, err := m.PredictProbability(ctx, [][]float64{{1, 2, 3, 4, 5}, {5, 4, 3, 2, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25}, probs)

	_, err = m.Attribute(ctx, [][]float64{{1, 2, 3, 4, 5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explainer warming up")
}

func TestRemoteModelUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := model.NewRemote(context.Background(), model.RemoteConfig{BaseURL: srv.URL}, zap.NewNop())
	assert.Error(t, err)
}

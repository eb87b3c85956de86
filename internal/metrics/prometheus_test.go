package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/api/patients":              "/api/patients",
		"/api/patients/":             "/api/patients/",
		"/api/patients/p17":          "/api/patients/{id}",
		"/api/patients/p17/report":   "/api/patients/{id}/report",
		"/api/patients/x/report.pdf": "/api/patients/{id}/report.pdf",
		"/api/impact":                "/api/impact",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), in)
	}
}

func TestMiddlewareCountsRequests(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	counter := httpRequestsTotal.WithLabelValues("GET", "/api/patients/{id}", "404")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/patients/nobody", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(classifierFallbacks)
	RecordClassifierFallback()
	assert.Equal(t, before+1, testutil.ToFloat64(classifierFallbacks))

	hits := testutil.ToFloat64(loadCacheLookups.WithLabelValues("hit"))
	RecordLoadCache(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(loadCacheLookups.WithLabelValues("hit")))

	RecordSession("fallback", 12, 1000, 50*time.Millisecond)
	assert.Equal(t, 12.0, testutil.ToFloat64(patientsScored))
	assert.Equal(t, 1000.0, testutil.ToFloat64(aggregateSavings))
}

// Package metrics exposes Prometheus counters for the readmission pipeline
// and an HTTP middleware that records request metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readmit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "readmit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "readmit_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Pipeline metrics
	sessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readmit_sessions_total",
			Help: "Total number of analysis sessions, by probability source",
		},
		[]string{"source"},
	)

	sessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "readmit_session_duration_seconds",
			Help:    "Time to load, score and classify the admissions table",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	classifierFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "readmit_classifier_fallback_total",
			Help: "Total number of sessions where readmission probability fell back to the composite score",
		},
	)

	loadCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readmit_load_cache_total",
			Help: "Admissions load cache lookups",
		},
		[]string{"result"},
	)

	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readmit_reports_generated_total",
			Help: "Total number of patient reports rendered",
		},
		[]string{"format"},
	)

	explanationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "readmit_explanations_total",
			Help: "Explanation requests by outcome",
		},
		[]string{"status"},
	)

	patientsScored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "readmit_patients_scored",
			Help: "Number of patients in the most recent session",
		},
	)

	aggregateSavings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "readmit_aggregate_savings_dollars",
			Help: "Capped estimated hospital savings from the most recent session",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := NormalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// NormalizePath replaces the patient ID segment so label cardinality stays
// bounded, e.g. /api/patients/p17/report -> /api/patients/{id}/report.
func NormalizePath(path string) string {
	const prefix = "/api/patients/"
	if !strings.HasPrefix(path, prefix) || len(path) == len(prefix) {
		return path
	}
	rest := path[len(prefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return prefix + "{id}" + rest[i:]
	}
	return prefix + "{id}"
}

// RecordSession records a completed analysis session.
func RecordSession(source string, patients int, savings float64, duration time.Duration) {
	sessionsTotal.WithLabelValues(source).Inc()
	sessionDuration.Observe(duration.Seconds())
	patientsScored.Set(float64(patients))
	aggregateSavings.Set(savings)
}

// RecordClassifierFallback records a session that ran in degraded mode.
func RecordClassifierFallback() {
	classifierFallbacks.Inc()
}

// RecordLoadCache records a load cache hit or miss.
func RecordLoadCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	loadCacheLookups.WithLabelValues(result).Inc()
}

// RecordReport records a rendered report in the given format.
func RecordReport(format string) {
	reportsGenerated.WithLabelValues(format).Inc()
}

// RecordExplanation records an explanation outcome: ok, unavailable or error.
func RecordExplanation(status string) {
	explanationsTotal.WithLabelValues(status).Inc()
}

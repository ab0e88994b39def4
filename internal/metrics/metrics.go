// Package metrics exposes Prometheus collectors for consultations, the
// remote API, the response cache and the HTTP server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "justice_tools"

// Metrics holds every collector. All methods are safe on a nil receiver so
// components can run without metrics.
type Metrics struct {
	// Consultation outcomes by tool, status and error code
	Consultations *prometheus.CounterVec

	// End to end consultation latency by tool
	ConsultationLatency *prometheus.HistogramVec

	// Remote API request latency by operation and status code
	APIRequestLatency *prometheus.HistogramVec

	// Status checks made while polling, by outcome
	PollingChecks *prometheus.CounterVec

	// Response cache lookups by result
	CacheLookups *prometheus.CounterVec

	// Batch jobs by outcome
	BatchJobs *prometheus.CounterVec

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Consultations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consultations_total",
			Help:      "Total consultations by tool, status and error code",
		}, []string{"tool", "status", "code"}),

		ConsultationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "consultation_duration_seconds",
			Help:      "Duration of consultations including polling",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 900},
		}, []string{"tool"}),

		APIRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of Web Justice API requests by operation and status code",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation", "code"}),

		PollingChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polling_checks_total",
			Help:      "Search status checks by outcome",
		}, []string{"outcome"}), // outcome: "pending", "ready", "error"

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by result",
		}, []string{"result"}), // result: "hit", "miss"

		BatchJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_jobs_total",
			Help:      "Batch consultation jobs by outcome",
		}, []string{"outcome"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests partitioned by status code, method and route.",
		}, []string{"code", "method", "path"}),

		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency partitioned by status code, method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"code", "method", "path"}),
	}
}

// ObserveConsultation records a finished consultation.
func (m *Metrics) ObserveConsultation(tool, status, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.Consultations.WithLabelValues(tool, status, code).Inc()
	m.ConsultationLatency.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveAPIRequest records one remote API request. A zero status code means
// the request never got a response.
func (m *Metrics) ObserveAPIRequest(operation string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	code := "none"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.APIRequestLatency.WithLabelValues(operation, code).Observe(d.Seconds())
}

// IncPollingCheck records a status check outcome.
func (m *Metrics) IncPollingCheck(outcome string) {
	if m != nil {
		m.PollingChecks.WithLabelValues(outcome).Inc()
	}
}

// IncCacheLookup records a cache hit or miss.
func (m *Metrics) IncCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// IncBatchJob records a batch job outcome.
func (m *Metrics) IncBatchJob(outcome string) {
	if m != nil {
		m.BatchJobs.WithLabelValues(outcome).Inc()
	}
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(statusCode)
	m.HTTPRequests.WithLabelValues(code, method, path).Inc()
	m.HTTPLatency.WithLabelValues(code, method, path).Observe(d.Seconds())
}

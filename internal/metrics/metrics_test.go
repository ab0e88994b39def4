package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveConsultation("process_consultation", "success", "", 3*time.Second)
	m.ObserveConsultation("process_consultation", "error", "CONSULTATION_ERROR", time.Second)
	m.IncCacheLookup(true)
	m.IncCacheLookup(false)
	m.IncCacheLookup(false)
	m.IncPollingCheck("pending")
	m.ObserveAPIRequest("search_status", 0, time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/v1/consultations/process", 200, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Consultations.WithLabelValues("process_consultation", "success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Consultations.WithLabelValues("process_consultation", "error", "CONSULTATION_ERROR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PollingChecks.WithLabelValues("pending")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.APIRequestLatency))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("200", "POST", "/api/v1/consultations/process")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveConsultation("t", "s", "c", time.Second)
		m.ObserveAPIRequest("op", 200, time.Second)
		m.IncPollingCheck("ready")
		m.IncCacheLookup(true)
		m.IncBatchJob("completed")
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	})
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

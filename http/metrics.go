package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeRecorded    = "recorded"
	outcomeInvalid     = "invalid"
	outcomeWriteFailed = "write_failed"
)

// Metrics owns a private registry so each server, and each test, counts
// on its own.
type Metrics struct {
	registry         *prometheus.Registry
	submissions      *prometheus.CounterVec
	storeUnavailable prometheus.Counter
	requestDuration  *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "moves_submissions_total",
			Help: "Form submissions by outcome.",
		}, []string{"outcome"}),
		storeUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "moves_store_unavailable_total",
			Help: "Requests aborted because the store could not be reached.",
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "moves_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		m.submissions,
		m.storeUnavailable,
		m.requestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) submission(outcome string) {
	m.submissions.WithLabelValues(outcome).Inc()
}

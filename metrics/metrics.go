package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for edit round trips and reloads.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics exposes editor metrics that are safe to scrape via Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry            *prometheus.Registry
	editRequests        *prometheus.CounterVec
	editRequestDuration *prometheus.HistogramVec
	localRejections     *prometheus.CounterVec
	reloads             *prometheus.CounterVec
}

// New creates a fresh registry with the edit, rejection and reload metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	editRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapedit",
		Name:      "edit_requests_total",
		Help:      "Count of map edit requests sent to the backend",
	}, []string{"op", "outcome"})

	editRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mapedit",
		Name:      "edit_request_duration_seconds",
		Help:      "Round trip duration of map edit requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})

	localRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapedit",
		Name:      "local_rejections_total",
		Help:      "Edits blocked locally before reaching the backend",
	}, []string{"kind"})

	reloads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapedit",
		Name:      "reloads_total",
		Help:      "Full map state reloads from the page shell",
	}, []string{"outcome"})

	registry.MustRegister(
		editRequests,
		editRequestDuration,
		localRejections,
		reloads,
	)

	return &Metrics{
		registry:            registry,
		editRequests:        editRequests,
		editRequestDuration: editRequestDuration,
		localRejections:     localRejections,
		reloads:             reloads,
	}
}

// ObserveEditRequest records a single edit request/response cycle.
func (m *Metrics) ObserveEditRequest(op, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.editRequests.With(prometheus.Labels{"op": op, "outcome": outcome}).Inc()
	m.editRequestDuration.With(prometheus.Labels{"op": op}).Observe(duration.Seconds())
}

// IncLocalRejection counts an edit refused before any request was sent.
func (m *Metrics) IncLocalRejection(kind string) {
	if m == nil {
		return
	}
	m.localRejections.With(prometheus.Labels{"kind": kind}).Inc()
}

// IncReload counts a map state reload.
func (m *Metrics) IncReload(outcome string) {
	if m == nil {
		return
	}
	m.reloads.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

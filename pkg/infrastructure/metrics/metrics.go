// Package metrics exposes shoplist activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vsinha/shoplist/pkg/infrastructure/events"
)

const namespace = "shoplist"

// Metrics owns a private registry so tests and multiple servers do not collide.
type Metrics struct {
	registry *prometheus.Registry

	storeLoads  *prometheus.CounterVec
	storeWrites *prometheus.CounterVec
	changes     *prometheus.CounterVec
	listRows    prometheus.Histogram
	sessions    prometheus.Gauge
	requests    *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		storeLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_loads_total",
			Help:      "Record store loads by store and source (cache or backend).",
		}, []string{"store", "source"}),
		storeWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_writes_total",
			Help:      "Record store writes by store and result.",
		}, []string{"store", "result"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Recorded change and run events by type.",
		}, []string{"type"}),
		listRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "list_rows",
			Help:      "Rows per generated shopping list.",
			Buckets:   []float64{0, 5, 10, 20, 40, 80},
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held by the web server.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
	m.registry.MustRegister(
		m.storeLoads,
		m.storeWrites,
		m.changes,
		m.listRows,
		m.sessions,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLoad implements document.Observer.
func (m *Metrics) ObserveLoad(store string, cached bool) {
	source := "backend"
	if cached {
		source = "cache"
	}
	m.storeLoads.WithLabelValues(store, source).Inc()
}

// ObserveWrite implements document.Observer.
func (m *Metrics) ObserveWrite(store string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeWrites.WithLabelValues(store, result).Inc()
}

// CanHandle implements events.EventHandler.
func (m *Metrics) CanHandle(string) bool { return true }

// Handle implements events.EventHandler.
func (m *Metrics) Handle(event events.Event) error {
	m.changes.WithLabelValues(event.Type()).Inc()
	if generated, ok := event.Data().(events.ListGenerated); ok {
		m.listRows.Observe(float64(generated.Rows))
	}
	return nil
}

// SetSessions records the number of live sessions.
func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}

// ObserveRequest counts one served request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics. A nil *Metrics is valid and
// records nothing, so wiring metrics stays optional in tests.
type Metrics struct {
	registry *prometheus.Registry

	accountsCreated prometheus.Counter
	logins          *prometheus.CounterVec

	requestsCreated   prometheus.Counter
	requestsAccepted  prometheus.Counter
	requestsCompleted prometheus.Counter
	requestsDeleted   prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Metrics registry with all collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,

		accountsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "accounts_created_total",
			Help:      "Total accounts created",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome",
		}, []string{"outcome"}),

		requestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "help_requests_created_total",
			Help:      "Total help requests created",
		}),
		requestsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "help_requests_accepted_total",
			Help:      "Total help request acceptances",
		}),
		requestsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "help_requests_completed_total",
			Help:      "Total help requests marked completed",
		}),
		requestsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nearhand",
			Name:      "help_requests_deleted_total",
			Help:      "Total help requests deleted by their owner",
		}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nearhand",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by path and status",
		}, []string{"path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nearhand",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by path",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}

	registry.MustRegister(
		m.accountsCreated,
		m.logins,
		m.requestsCreated,
		m.requestsAccepted,
		m.requestsCompleted,
		m.requestsDeleted,
		m.httpRequests,
		m.httpDuration,
	)

	return m
}

// Registry returns the underlying prometheus registry, for components
// that register their own collectors (e.g. the storage engine).
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AccountCreated records a successful account creation.
func (m *Metrics) AccountCreated() {
	if m != nil {
		m.accountsCreated.Inc()
	}
}

// Login records a login attempt with the given outcome label.
func (m *Metrics) Login(outcome string) {
	if m != nil {
		m.logins.WithLabelValues(outcome).Inc()
	}
}

// RequestCreated records a created help request.
func (m *Metrics) RequestCreated() {
	if m != nil {
		m.requestsCreated.Inc()
	}
}

// RequestAccepted records an accepted help request.
func (m *Metrics) RequestAccepted() {
	if m != nil {
		m.requestsAccepted.Inc()
	}
}

// RequestCompleted records a completed help request.
func (m *Metrics) RequestCompleted() {
	if m != nil {
		m.requestsCompleted.Inc()
	}
}

// RequestDeleted records a deleted help request.
func (m *Metrics) RequestDeleted() {
	if m != nil {
		m.requestsDeleted.Inc()
	}
}

// HTTPRequest records one served HTTP request.
func (m *Metrics) HTTPRequest(path, status string, seconds float64) {
	if m != nil {
		m.httpRequests.WithLabelValues(path, status).Inc()
		m.httpDuration.WithLabelValues(path).Observe(seconds)
	}
}

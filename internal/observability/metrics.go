package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a dedicated Prometheus registry and the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errors          *prometheus.CounterVec

	tokensIssued       prometheus.Counter
	tokenValidations   *prometheus.CounterVec
	credentialFailures prometheus.Counter
	tokensSwept        prometheus.Counter
	eventsRecorded     *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of failed HTTP requests by error code",
		}, []string{"method", "route", "code"}),
		tokensIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_tokens_issued_total",
			Help: "Total number of access tokens issued",
		}),
		// outcome: "valid", "renewed", "invalid", "missing"
		tokenValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_validations_total",
			Help: "Total number of token validations by outcome",
		}, []string{"outcome"}),
		credentialFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_credential_failures_total",
			Help: "Total number of rejected client credentials",
		}),
		tokensSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_tokens_swept_total",
			Help: "Total number of expired tokens deleted by the sweeper",
		}),
		eventsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_events_recorded_total",
			Help: "Total number of analytics records stored by kind",
		}, []string{"kind"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// TokenIssued counts a successful issuance.
func (m *Metrics) TokenIssued() {
	if m == nil {
		return
	}
	m.tokensIssued.Inc()
}

// TokenValidation counts a validation outcome.
func (m *Metrics) TokenValidation(outcome string) {
	if m == nil {
		return
	}
	m.tokenValidations.WithLabelValues(outcome).Inc()
}

// CredentialFailure counts a rejected credential pair.
func (m *Metrics) CredentialFailure() {
	if m == nil {
		return
	}
	m.credentialFailures.Inc()
}

// TokensSwept adds the number of tokens removed by one sweep.
func (m *Metrics) TokensSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

// EventRecorded counts a stored analytics record.
func (m *Metrics) EventRecorded(kind string) {
	if m == nil {
		return
	}
	m.eventsRecorded.WithLabelValues(kind).Inc()
}

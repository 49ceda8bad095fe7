package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exported by the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PlanMutationsTotal *prometheus.CounterVec
	StoreErrorsTotal   *prometheus.CounterVec
	QuotesTotal        *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on the given registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "billing_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		PlanMutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_plan_mutations_total",
				Help: "Plan create/update attempts by outcome",
			},
			[]string{"operation", "outcome"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_store_errors_total",
				Help: "Record store failures by catalog operation",
			},
			[]string{"operation"},
		),
		QuotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "billing_prorated_quotes_total",
				Help: "Prorated upgrade quotes computed, by direction",
			},
			[]string{"direction"},
		),
	}

	registerer.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PlanMutationsTotal,
		m.StoreErrorsTotal,
		m.QuotesTotal,
	)
	return m
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPlanMutation records a create or update attempt. outcome is
// "success", "invalid", "not_found" or "error".
func (m *Metrics) RecordPlanMutation(operation, outcome string) {
	if m == nil {
		return
	}
	m.PlanMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordStoreError records a record store failure.
func (m *Metrics) RecordStoreError(operation string) {
	if m == nil {
		return
	}
	m.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordQuote records a computed prorated quote. direction is "upgrade",
// "downgrade" or "flat".
func (m *Metrics) RecordQuote(direction string) {
	if m == nil {
		return
	}
	m.QuotesTotal.WithLabelValues(direction).Inc()
}

// Handler returns the exposition handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

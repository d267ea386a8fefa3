// Package metrics exposes Prometheus collectors for the HTTP surface and the
// group engine's business activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the server registers.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	ContributionsTotal  prometheus.Counter
	PayoutsTotal        prometheus.Counter
	PayoutSkippedTotal  prometheus.Counter
	FinesCollectedTotal prometheus.Counter
	PunishmentsTotal    prometheus.Counter
	ProposalsTotal      prometheus.Counter
	GroupsCreatedTotal  prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chamapool_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chamapool_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ContributionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_contributions_total",
			Help: "Contributions accepted across all groups.",
		}),
		PayoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_payouts_total",
			Help: "Rotation payouts processed across all groups.",
		}),
		PayoutSkippedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_payouts_skipped_total",
			Help: "Payouts whose nominal recipient was skipped.",
		}),
		FinesCollectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_fines_collected_total",
			Help: "Fines paid across all groups.",
		}),
		PunishmentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_punishments_total",
			Help: "Punishments issued across all groups.",
		}),
		ProposalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_proposals_total",
			Help: "Governance proposals created across all groups.",
		}),
		GroupsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "chamapool_groups_created_total",
			Help: "Groups instantiated by the registry.",
		}),
	}
}

// Handler returns the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Instrument wraps an HTTP handler, recording request counts and latency
// under the given route label.
func (m *Metrics) Instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

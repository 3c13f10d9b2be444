// Package metrics defines the portal's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups every collector the portal exports.
type Metrics struct {
	// HTTP requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// Booking submissions by result: success, validation, in_flight, error.
	SubmissionsTotal *prometheus.CounterVec

	// Payment returns by view: success, failure, invalid.
	ResolutionsTotal *prometheus.CounterVec

	// Completed fetches dropped because newer input superseded them, by
	// component: seats, payment, history.
	StaleDiscardedTotal *prometheus.CounterVec

	// Live workspaces.
	Workspaces prometheus.Gauge
}

// New registers the collectors on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_booking_submissions_total",
				Help: "Booking submissions by result",
			},
			[]string{"result"},
		),
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_payment_resolutions_total",
				Help: "Payment returns by resulting view",
			},
			[]string{"view"},
		),
		StaleDiscardedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_stale_responses_discarded_total",
				Help: "Backend responses dropped because a newer request superseded them",
			},
			[]string{"component"},
		),
		Workspaces: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "portal_workspaces",
				Help: "Number of live portal workspaces",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SubmissionsTotal,
		m.ResolutionsTotal,
		m.StaleDiscardedTotal,
		m.Workspaces,
	)
	return m
}

// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all service metrics on a private Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	Calculations        *prometheus.CounterVec
	CalculationDuration prometheus.Histogram
	ValidationFailures  *prometheus.CounterVec
	SavedCalculations   prometheus.Counter
	SideEffectErrors    *prometheus.CounterVec
	EligibilityChecks   *prometheus.CounterVec
	Recommendations     *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	RateLimited         prometheus.Counter
}

// NewRegistry creates and registers all collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Calculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_calculations_total",
				Help: "Match calculations served, by cache outcome",
			},
			[]string{"cache"},
		),
		CalculationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "match_calculation_duration_seconds",
				Help:    "Time spent serving a match calculation",
				Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
		),
		ValidationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_validation_failures_total",
				Help: "Rejected calculator inputs, by field",
			},
			[]string{"field"},
		),
		SavedCalculations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_saved_calculations_total",
				Help: "Calculations persisted for users",
			},
		),
		SideEffectErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_side_effect_errors_total",
				Help: "Failed cache or storage writes that did not fail the request",
			},
			[]string{"target"},
		),
		EligibilityChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_eligibility_checks_total",
				Help: "Eligibility checks, by outcome",
			},
			[]string{"eligible"},
		),
		Recommendations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_recommendations_total",
				Help: "Match recommendations, by source (advisor or fallback)",
			},
			[]string{"source"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "match_http_requests_total",
				Help: "HTTP requests, by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "match_http_request_duration_seconds",
				Help:    "HTTP request latency, by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "match_http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Calculations,
		r.CalculationDuration,
		r.ValidationFailures,
		r.SavedCalculations,
		r.SideEffectErrors,
		r.EligibilityChecks,
		r.Recommendations,
		r.HTTPRequests,
		r.HTTPDuration,
		r.RateLimited,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry, mainly for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

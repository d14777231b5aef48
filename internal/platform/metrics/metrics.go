package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	RegistrationsTotal       prometheus.Counter
	RegistrationConflicts    prometheus.Counter
	TrialSearchRequestsTotal prometheus.Counter
	TrialSearchFailuresTotal prometheus.Counter
	RegistrantsDeactivated   prometheus.Counter
	RequestDurationSeconds   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicalgoto_registrations_total",
			Help: "Total number of registrants created",
		}),
		RegistrationConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicalgoto_registration_conflicts_total",
			Help: "Registration attempts rejected as duplicate emails",
		}),
		TrialSearchRequestsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicalgoto_trial_search_requests_total",
			Help: "Clinical trial searches issued against the upstream API",
		}),
		TrialSearchFailuresTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicalgoto_trial_search_failures_total",
			Help: "Upstream clinical trial searches that failed",
		}),
		RegistrantsDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "clinicalgoto_registrants_deactivated_total",
			Help: "Registrants soft-deleted through the admin surface",
		}),
		RequestDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clinicalgoto_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementRegistrations records one successful registration.
func (m *Metrics) IncrementRegistrations() {
	if m == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

// IncrementConflicts records one duplicate-email rejection.
func (m *Metrics) IncrementConflicts() {
	if m == nil {
		return
	}
	m.RegistrationConflicts.Inc()
}

// RecordTrialSearch records one upstream search and whether it failed.
func (m *Metrics) RecordTrialSearch(failed bool) {
	if m == nil {
		return
	}
	m.TrialSearchRequestsTotal.Inc()
	if failed {
		m.TrialSearchFailuresTotal.Inc()
	}
}

// IncrementDeactivations records one admin soft-delete.
func (m *Metrics) IncrementDeactivations() {
	if m == nil {
		return
	}
	m.RegistrantsDeactivated.Inc()
}

// ObserveRequest records request latency for a route/status pair.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDurationSeconds.WithLabelValues(route, status).Observe(seconds)
}

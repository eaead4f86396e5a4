// Package obs provides Prometheus metrics for the verification pipeline.
package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all collectors, registered on an explicit registry so
// tests can use isolated instances.
type Metrics struct {
	VerificationsTotal   *prometheus.CounterVec // verdict: real, suspect
	RealismSourceTotal   *prometheus.CounterVec // source: inference, fallback
	VerificationDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics registers the verification collectors on the given registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		VerificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authenx_verifications_total",
				Help: "Completed image verifications by verdict",
			},
			[]string{"verdict"},
		),
		RealismSourceTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authenx_realism_source_total",
				Help: "Realism score source (external inference or local fallback)",
			},
			[]string{"source"},
		),
		VerificationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "authenx_verification_duration_seconds",
				Help:    "End-to-end verification pipeline latency",
				Buckets: prometheus.DefBuckets,
			},
		),
		registry: registry,
	}
}

// ObserveVerification records a completed pipeline run.
func (m *Metrics) ObserveVerification(isReal bool, elapsed time.Duration) {
	verdict := "suspect"
	if isReal {
		verdict = "real"
	}
	m.VerificationsTotal.WithLabelValues(verdict).Inc()
	m.VerificationDuration.Observe(elapsed.Seconds())
}

// ObserveRealismSource records which estimator produced the realism score.
func (m *Metrics) ObserveRealismSource(source string) {
	m.RealismSourceTotal.WithLabelValues(source).Inc()
}

// Handler exposes the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

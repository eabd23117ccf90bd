package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics carries the service's prometheus instruments on a private registry
// so tests can construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	Analyses       *prometheus.CounterVec
	AlertsCreated  *prometheus.CounterVec
	BatchSubjects  *prometheus.CounterVec
	Interventions  *prometheus.CounterVec
	AnalyzeLatency prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_analyses_total",
			Help: "Risk analyses served, by cache outcome.",
		}, []string{"source"}),
		AlertsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_alerts_created_total",
			Help: "Alerts persisted, by level.",
		}, []string{"level"}),
		BatchSubjects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_batch_subjects_total",
			Help: "Batch analysis subjects, by outcome.",
		}, []string{"outcome"}),
		Interventions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "risk_interventions_total",
			Help: "Intervention mutations, by operation.",
		}, []string{"op"}),
		AnalyzeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "risk_analyze_duration_seconds",
			Help:    "Latency of assessment computation (cache misses only).",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.Analyses, m.AlertsCreated, m.BatchSubjects, m.Interventions, m.AnalyzeLatency)
	return m
}

// Handler serves the registry for the /metrics route.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

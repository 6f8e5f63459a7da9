package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/de-tools/seo-atlas/pkg/models/domain"
)

const namespace = "seo_atlas"

// Metrics holds the Prometheus collectors of one process. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry    *prometheus.Registry
	auditRuns   *prometheus.CounterVec
	lastScore   prometheus.Gauge
	issues      *prometheus.GaugeVec
	fixes       *prometheus.CounterVec
	completions *prometheus.CounterVec
	quotaUsage  *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		auditRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "runs_total",
				Help:      "Total audit runs by outcome",
			},
			[]string{"outcome"},
		),
		lastScore: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "last_score",
				Help:      "Score of the most recent successful audit run",
			},
		),
		issues: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "audit",
				Name:      "issues",
				Help:      "Issues found by the most recent audit run, by severity",
			},
			[]string{"severity"},
		),
		fixes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "remediation",
				Name:      "targets_total",
				Help:      "Remediation targets processed by issue kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "calls_total",
				Help:      "Text completion calls by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		quotaUsage: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "quota",
				Name:      "usage_total",
				Help:      "Quota counter increments by feature",
			},
			[]string{"feature"},
		),
	}

	m.registry.MustRegister(
		m.auditRuns,
		m.lastScore,
		m.issues,
		m.fixes,
		m.completions,
		m.quotaUsage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAudit(run domain.AuditRun, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.auditRuns.WithLabelValues("error").Inc()
		return
	}
	m.auditRuns.WithLabelValues("success").Inc()
	m.lastScore.Set(float64(run.Score))
	for severity, count := range run.SeverityCounts() {
		m.issues.WithLabelValues(string(severity)).Set(float64(count))
	}
}

func (m *Metrics) ObserveFix(kind string, fixed, failed int) {
	if m == nil {
		return
	}
	m.fixes.WithLabelValues(kind, "fixed").Add(float64(fixed))
	m.fixes.WithLabelValues(kind, "failed").Add(float64(failed))
}

func (m *Metrics) ObserveCompletion(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.completions.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveQuotaUsage(feature domain.Feature) {
	if m == nil {
		return
	}
	m.quotaUsage.WithLabelValues(string(feature)).Inc()
}

package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	stageDuration  *prom.HistogramVec
	stageResults   *prom.CounterVec
	renderDuration prom.Histogram
	renderOutcome  *prom.CounterVec
	lintIssues     *prom.GaugeVec
	documents      prom.Gauge
	watchEvents    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual render stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Total render duration",
			Buckets:   prom.DefBuckets,
		})
		pr.renderOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "render_outcomes_total",
			Help:      "Render outcomes by final status",
		}, []string{"outcome"})
		pr.lintIssues = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "lint_issues",
			Help:      "Lint issues found by the most recent run",
		}, []string{"severity"})
		pr.documents = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "content_documents",
			Help:      "Documents in the content tree at the most recent scan",
		})
		pr.watchEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "File system events received by the watcher",
		}, []string{"source"})
		reg.MustRegister(pr.stageDuration, pr.stageResults, pr.renderDuration, pr.renderOutcome, pr.lintIssues, pr.documents, pr.watchEvents)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRenderOutcome(outcome string) {
	if p == nil || p.renderOutcome == nil {
		return
	}
	p.renderOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetLintIssues(severity string, n int) {
	if p == nil || p.lintIssues == nil {
		return
	}
	p.lintIssues.WithLabelValues(severity).Set(float64(n))
}

func (p *PrometheusRecorder) SetDocuments(n int) {
	if p == nil || p.documents == nil {
		return
	}
	p.documents.Set(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(source string) {
	if p == nil || p.watchEvents == nil {
		return
	}
	p.watchEvents.WithLabelValues(source).Inc()
}

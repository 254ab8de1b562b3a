package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogc"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	compileDuration *prom.HistogramVec
	buildDuration   prom.Histogram
	fileResults     *prom.CounterVec
	diagnostics     prom.Counter
	buildOutcome    *prom.CounterVec
	sources         prom.Gauge
	watchEvents     *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		compileDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Duration of compiling a single source",
			Buckets:   prom.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"engine"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		fileResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "file_results_total",
			Help:      "Per-source results by outcome",
		}, []string{"result"}),
		diagnostics: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagnostics_total",
			Help:      "Non-fatal diagnostics reported while compiling",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		sources: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sources",
			Help:      "Sources discovered by the last build",
		}),
		watchEvents: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "watch_events_total",
			Help:      "Filesystem events handled by the watcher",
		}, []string{"op"}),
	}
	reg.MustRegister(pr.compileDuration, pr.buildDuration, pr.fileResults,
		pr.diagnostics, pr.buildOutcome, pr.sources, pr.watchEvents)
	return pr
}

func (p *PrometheusRecorder) ObserveCompileDuration(engine string, d time.Duration) {
	if p == nil {
		return
	}
	p.compileDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFileResult(result FileResult) {
	if p == nil {
		return
	}
	p.fileResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddDiagnostics(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.diagnostics.Add(float64(n))
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetSources(n int) {
	if p == nil {
		return
	}
	p.sources.Set(float64(n))
}

func (p *PrometheusRecorder) IncWatchEvent(op string) {
	if p == nil {
		return
	}
	p.watchEvents.WithLabelValues(op).Inc()
}

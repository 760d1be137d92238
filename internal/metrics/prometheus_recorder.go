package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "blogsync"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	runDuration   *prom.HistogramVec
	runOutcome    *prom.CounterVec
	postsWritten  *prom.CounterVec
	postsDeleted  prom.Counter
	lastSuccess   *prom.GaugeVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		runDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}, []string{"mode"}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Pipeline runs by final status",
		}, []string{"mode", "outcome"}),
		postsWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "posts_written_total",
			Help:      "Post pages written",
		}, []string{"mode"}),
		postsDeleted: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "posts_deleted_total",
			Help:      "Post pages deleted by resync",
		}),
		lastSuccess: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}, []string{"mode"}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.runDuration, pr.runOutcome,
		pr.postsWritten, pr.postsDeleted, pr.lastSuccess)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(mode string, d time.Duration) {
	if p == nil {
		return
	}
	p.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(mode string, outcome OutcomeLabel) {
	if p == nil {
		return
	}
	p.runOutcome.WithLabelValues(mode, string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPostsWritten(mode string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.postsWritten.WithLabelValues(mode).Add(float64(n))
}

func (p *PrometheusRecorder) AddPostsDeleted(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.postsDeleted.Add(float64(n))
}

func (p *PrometheusRecorder) SetLastSuccess(mode string, t time.Time) {
	if p == nil {
		return
	}
	p.lastSuccess.WithLabelValues(mode).Set(float64(t.Unix()))
}

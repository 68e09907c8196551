package metrics

import (
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-mizutani/ecsync/pkg/domain/model"
)

const namespace = "ecsync"

// NoopRecorder discards every observation
type NoopRecorder struct{}

func (NoopRecorder) ObserveStage(string, time.Duration, error) {}
func (NoopRecorder) ObserveRun(time.Duration, error)           {}

// PrometheusRecorder records observations as Prometheus metrics
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	runDuration   prom.Histogram
	runResults    *prom.CounterVec
	lastSuccess   prom.Gauge
}

// NewPrometheusRecorder creates the metrics and registers them to reg.
// A new registry is created when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &PrometheusRecorder{
		registry: reg,
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage results by outcome",
		}, []string{"stage", "result"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of whole pipeline runs",
			Buckets:   prom.DefBuckets,
		}),
		runResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_results_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"result"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
	}

	reg.MustRegister(r.stageDuration, r.stageResults, r.runDuration, r.runResults, r.lastSuccess)
	return r
}

// ObserveStage records the duration and outcome of a single stage
func (r *PrometheusRecorder) ObserveStage(stage string, d time.Duration, err error) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	r.stageResults.WithLabelValues(stage, Result(err)).Inc()
}

// ObserveRun records the duration and outcome of a pipeline run
func (r *PrometheusRecorder) ObserveRun(d time.Duration, err error) {
	r.runDuration.Observe(d.Seconds())
	r.runResults.WithLabelValues(Result(err)).Inc()
	if err == nil {
		r.lastSuccess.SetToCurrentTime()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Result classifies err into a metric label value
func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case goerr.HasTag(err, model.ErrTagNotFound):
		return "not_found"
	case goerr.HasTag(err, model.ErrTagFetch):
		return "fetch_error"
	case goerr.HasTag(err, model.ErrTagWrite):
		return "write_error"
	default:
		return "error"
	}
}

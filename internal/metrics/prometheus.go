package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	buildDuration   prom.Histogram
	targetDuration  *prom.HistogramVec
	buildOutcome    *prom.CounterVec
	targetResults   *prom.CounterVec
	watchEvents     prom.Counter
	debouncedBuilds prom.Counter
	filesEmitted    *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docsplit",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.targetDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsplit",
			Name:      "target_duration_seconds",
			Help:      "Duration of individual target emitter runs",
			Buckets:   prom.DefBuckets,
		}, []string{"target"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsplit",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		pr.targetResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsplit",
			Name:      "target_results_total",
			Help:      "Target emitter results by outcome",
		}, []string{"target", "result"})
		pr.watchEvents = prom.NewCounter(prom.CounterOpts{
			Namespace: "docsplit",
			Name:      "watch_events_total",
			Help:      "Qualifying filesystem events observed by the watch trigger",
		})
		pr.debouncedBuilds = prom.NewCounter(prom.CounterOpts{
			Namespace: "docsplit",
			Name:      "debounced_builds_total",
			Help:      "Builds fired by the debounce trigger",
		})
		pr.filesEmitted = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "docsplit",
			Name:      "files_emitted",
			Help:      "Files written by the last run of each target emitter",
		}, []string{"target"})
		reg.MustRegister(pr.buildDuration, pr.targetDuration, pr.buildOutcome,
			pr.targetResults, pr.watchEvents, pr.debouncedBuilds, pr.filesEmitted)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveTargetDuration(target string, d time.Duration) {
	if p == nil || p.targetDuration == nil {
		return
	}
	p.targetDuration.WithLabelValues(target).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome ResultLabel) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncTargetResult(target string, result ResultLabel) {
	if p == nil || p.targetResults == nil {
		return
	}
	p.targetResults.WithLabelValues(target, string(result)).Inc()
}

func (p *PrometheusRecorder) IncWatchEvent() {
	if p == nil || p.watchEvents == nil {
		return
	}
	p.watchEvents.Inc()
}

func (p *PrometheusRecorder) IncDebouncedBuild() {
	if p == nil || p.debouncedBuilds == nil {
		return
	}
	p.debouncedBuilds.Inc()
}

func (p *PrometheusRecorder) SetFilesEmitted(target string, n int) {
	if p == nil || p.filesEmitted == nil {
		return
	}
	p.filesEmitted.WithLabelValues(target).Set(float64(n))
}

// Serve exposes /metrics on addr until ctx is canceled. Intended for watch
// mode; errors other than server shutdown are logged, not returned.
func (p *PrometheusRecorder) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Metrics listener started", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Metrics listener failed", "error", err)
	}
}

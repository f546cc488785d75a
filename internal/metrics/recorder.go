package metrics

import "time"

// ResultLabel enumerates build outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for the build pipeline and the watch
// trigger. Implementations may forward to Prometheus, OpenTelemetry, etc.
// All methods must be safe on the NoopRecorder so injection stays optional.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObserveTargetDuration(target string, d time.Duration)
	IncBuildOutcome(outcome ResultLabel)
	IncTargetResult(target string, result ResultLabel)
	IncWatchEvent()
	IncDebouncedBuild()
	SetFilesEmitted(target string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) ObserveTargetDuration(string, time.Duration) {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                 {}
func (NoopRecorder) IncTargetResult(string, ResultLabel)         {}
func (NoopRecorder) IncWatchEvent()                              {}
func (NoopRecorder) IncDebouncedBuild()                          {}
func (NoopRecorder) SetFilesEmitted(string, int)                 {}

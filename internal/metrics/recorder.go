package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for render runs and the watcher.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRenderDuration(d time.Duration)
	IncRenderOutcome(outcome string) // outcome: success|warning|failed|skipped
	SetLintIssues(severity string, n int)
	SetDocuments(n int)
	IncWatchEvent(source string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRenderDuration(time.Duration)        {}
func (NoopRecorder) IncRenderOutcome(string)                    {}
func (NoopRecorder) SetLintIssues(string, int)                  {}
func (NoopRecorder) SetDocuments(int)                           {}
func (NoopRecorder) IncWatchEvent(string)                       {}

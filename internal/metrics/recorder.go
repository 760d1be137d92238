package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// OutcomeLabel is the final status of a pipeline run.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for pipeline runs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveRunDuration(mode string, d time.Duration)
	IncRunOutcome(mode string, outcome OutcomeLabel)
	AddPostsWritten(mode string, n int)
	AddPostsDeleted(n int)
	SetLastSuccess(mode string, t time.Time)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration)   {}
func (NoopRecorder) IncRunOutcome(string, OutcomeLabel)         {}
func (NoopRecorder) AddPostsWritten(string, int)                {}
func (NoopRecorder) AddPostsDeleted(int)                        {}
func (NoopRecorder) SetLastSuccess(string, time.Time)           {}

package metrics

import (
	"testing"
	"time"
)

// NoopRecorder must satisfy Recorder and accept every call.
func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render", time.Second)
	r.IncStageResult("render", ResultSuccess)
	r.ObserveRunDuration("append", time.Second)
	r.IncRunOutcome("append", OutcomeSuccess)
	r.AddPostsWritten("append", 1)
	r.AddPostsDeleted(2)
	r.SetLastSuccess("append", time.Now())
}

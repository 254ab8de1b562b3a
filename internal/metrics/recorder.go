package metrics

import "time"

// FileResult enumerates per-source outcomes for counters.
type FileResult string

const (
	FileWritten   FileResult = "written"
	FileUnchanged FileResult = "unchanged"
	FileFailed    FileResult = "failed"
	FileRemoved   FileResult = "removed"
)

// BuildOutcome enumerates whole-build outcomes.
type BuildOutcome string

const (
	BuildSuccess  BuildOutcome = "success"
	BuildWarning  BuildOutcome = "warning"
	BuildFailed   BuildOutcome = "failed"
	BuildCanceled BuildOutcome = "canceled"
)

// Recorder defines observability hooks for builds. Implementations must be
// safe for concurrent use; the runner calls them from its workers.
type Recorder interface {
	ObserveCompileDuration(engine string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncFileResult(result FileResult)
	AddDiagnostics(n int)
	IncBuildOutcome(outcome BuildOutcome)
	SetSources(n int)
	IncWatchEvent(op string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompileDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)           {}
func (NoopRecorder) IncFileResult(FileResult)                     {}
func (NoopRecorder) AddDiagnostics(int)                           {}
func (NoopRecorder) IncBuildOutcome(BuildOutcome)                 {}
func (NoopRecorder) SetSources(int)                               {}
func (NoopRecorder) IncWatchEvent(string)                         {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}

package models

import "time"

// FailureStage distinguishes transport failures from content failures
// in the run report.
type FailureStage string

const (
	StageFetch   FailureStage = "fetch"
	StageExtract FailureStage = "extract"
)

// RunFailure records one URL that could not be turned into a FundRecord,
// with enough detail for manual follow-up.
type RunFailure struct {
	URL      string
	Stage    FailureStage
	Kind     FailureKind // set for fetch failures
	Reason   string
	Attempts int // attempts made before giving up (fetch failures)
}

// RunReport accumulates the outcome of one pipeline execution. It is
// owned exclusively by the orchestrator for the duration of the run and
// finalized (read-only) before being handed to the caller.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Discovered       int
	PartialDiscovery bool // discovery stopped early (page failure or page bound)
	Canceled         bool // run stopped by external cancellation

	Successes       int
	FetchFailures   int
	ExtractFailures int
	Duplicates      int

	Failures []RunFailure

	finalized bool
}

// NewRunReport creates an empty report stamped with the current time.
func NewRunReport() *RunReport {
	return &RunReport{StartedAt: time.Now()}
}

// AddFetchFailure records a URL that failed after the retry budget.
func (r *RunReport) AddFetchFailure(url string, kind FailureKind, reason string, attempts int) {
	r.FetchFailures++
	r.Failures = append(r.Failures, RunFailure{
		URL:      url,
		Stage:    StageFetch,
		Kind:     kind,
		Reason:   reason,
		Attempts: attempts,
	})
}

// AddExtractFailure records a URL whose page loaded but yielded no record.
func (r *RunReport) AddExtractFailure(url, reason string) {
	r.ExtractFailures++
	r.Failures = append(r.Failures, RunFailure{
		URL:    url,
		Stage:  StageExtract,
		Reason: reason,
	})
}

// Finalize freezes the report and stamps the finish time. Further
// mutation is a programming error; Finalize is idempotent.
func (r *RunReport) Finalize() *RunReport {
	if !r.finalized {
		r.finalized = true
		r.FinishedAt = time.Now()
	}
	return r
}

// Finalized reports whether the run has completed.
func (r *RunReport) Finalized() bool {
	return r.finalized
}

// Processed is the number of discovered links accounted for so far.
// After an uncanceled run it equals Discovered.
func (r *RunReport) Processed() int {
	return r.Successes + r.FetchFailures + r.ExtractFailures + r.Duplicates
}

package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/parsort/internal/progress"
)

// BenchmarkResult is the outcome of one algorithm on one input size. It is
// the shared domain type between orchestration and presentation layers.
type BenchmarkResult struct {
	// Algorithm is the registry name of the algorithm (e.g., "parallel").
	Algorithm string
	// Size is the number of elements sorted.
	Size int
	// Duration is the wall time of the sort call.
	Duration time.Duration
	// Output is the sorted sequence. It is nil if an error occurred.
	Output []float64
	// Err contains any error returned by the sort.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Verbose bool
	Quiet   bool
}

// ProgressReporter displays benchmark progress. Implementations handle the
// visual representation (spinners, dashboards) while the orchestration layer
// focuses on running the algorithms.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed, then
	// calls wg.Done. It is started in its own goroutine.
	//
	// Parameters:
	//   - wg: A WaitGroup to signal when display is complete.
	//   - progressChan: Channel receiving progress updates.
	//   - numAlgorithms: The number of algorithms being tracked.
	//   - out: The writer for progress output.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numAlgorithms int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numAlgorithms int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numAlgorithms int, out io.Writer) {
	f(wg, progressChan, numAlgorithms, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter presents benchmark results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per result.
	PresentComparisonTable(results []BenchmarkResult, out io.Writer)

	// PresentResult displays the fastest consistent result of one size.
	PresentResult(result BenchmarkResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles benchmark errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}

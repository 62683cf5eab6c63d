package orchestration

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/progress"
	"github.com/agbru/parsort/internal/sorting"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of dropped updates when the
// UI is slow to consume them.
const ProgressBufferMultiplier = 5

// ExecuteBenchmarks runs every algorithm on every input size and returns one
// result per (size, algorithm) pair, size-major.
//
// For each size a single input is generated from seed and every algorithm
// sorts it in turn. Algorithms run one at a time so that their timings do
// not compete for cores; each receives the same input and must not modify
// it. Once ctx is done the remaining pairs are recorded with ctx's error
// without running.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - algorithms: The algorithms to benchmark.
//   - sizes: The input sizes, in run order.
//   - seed: The seed for GenerateInput.
//   - reporter: The progress reporter (use NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []BenchmarkResult: len(sizes)*len(algorithms) results.
func ExecuteBenchmarks(ctx context.Context, algorithms []sorting.Algorithm, sizes []int, seed uint64, reporter ProgressReporter, out io.Writer) []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(sizes)*len(algorithms))
	progressChan := make(chan progress.ProgressUpdate, max(1, len(algorithms)*len(sizes)*ProgressBufferMultiplier))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(algorithms), out)

	total := 0
	for _, size := range sizes {
		total += size
	}

	done := 0
	for _, size := range sizes {
		input := GenerateInput(size, seed)
		for idx, algo := range algorithms {
			res := BenchmarkResult{Algorithm: algo.Name(), Size: size}
			if err := ctx.Err(); err != nil {
				res.Err = err
				results = append(results, res)
				continue
			}
			start := time.Now()
			res.Output, res.Err = algo.Sort(ctx, input)
			res.Duration = time.Since(start)
			results = append(results, res)

			progress.Report(progressChan, progress.ProgressUpdate{
				Index: idx,
				Value: fraction(done+size, total),
				Size:  size,
			})
		}
		done += size
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

func fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	return float64(done) / float64(total)
}

// AnalyzeBenchmarkResults presents the results and cross-checks them.
//
// Results are grouped by size. Within a size every successful output must
// be ordered and identical to the first successful output; any disagreement
// is a critical error. When no result succeeded, or when the run was cut
// short by cancellation or a deadline, the error is handed to errHandler.
//
// Parameters:
//   - results: The results of ExecuteBenchmarks.
//   - opts: Presentation options.
//   - presenter: The result presenter for display formatting.
//   - errHandler: The handler mapping errors to exit codes.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeBenchmarkResults(results []BenchmarkResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	presenter.PresentComparisonTable(results, out)

	var firstError, contextError error
	successCount := 0
	for _, res := range results {
		if res.Err == nil {
			successCount++
			continue
		}
		if firstError == nil {
			firstError = res.Err
		}
		if contextError == nil && apperrors.IsContextError(res.Err) {
			contextError = res.Err
		}
	}

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm completed a sort.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	var best []BenchmarkResult
	for _, group := range groupBySize(results) {
		ref, ok := checkConsistency(group)
		if !ok {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! Outputs disagree for %d elements (reference: %s).\n", group[0].Size, ref)
			return apperrors.ExitErrorMismatch
		}
		if fastest, found := fastestResult(group); found {
			best = append(best, fastest)
		}
	}

	if contextError != nil {
		fmt.Fprintf(out, "\nGlobal Status: Interrupted. Completed results are consistent.\n")
		return errHandler.HandleError(contextError, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	if !opts.Quiet {
		for _, res := range best {
			presenter.PresentResult(res, opts, out)
		}
	}
	return apperrors.ExitSuccess
}

// groupBySize splits results into runs of equal Size, preserving order of
// first appearance.
func groupBySize(results []BenchmarkResult) [][]BenchmarkResult {
	var order []int
	groups := make(map[int][]BenchmarkResult)
	for _, res := range results {
		if _, seen := groups[res.Size]; !seen {
			order = append(order, res.Size)
		}
		groups[res.Size] = append(groups[res.Size], res)
	}
	out := make([][]BenchmarkResult, len(order))
	for i, size := range order {
		out[i] = groups[size]
	}
	return out
}

// checkConsistency reports whether every successful output of group is
// ordered and equal to the first one. It returns the reference algorithm.
func checkConsistency(group []BenchmarkResult) (string, bool) {
	var ref *BenchmarkResult
	for i := range group {
		res := &group[i]
		if res.Err != nil {
			continue
		}
		if !slices.IsSorted(res.Output) {
			return res.Algorithm, false
		}
		if ref == nil {
			ref = res
			continue
		}
		if !slices.Equal(res.Output, ref.Output) {
			return ref.Algorithm, false
		}
	}
	if ref == nil {
		return "", true
	}
	return ref.Algorithm, true
}

func fastestResult(group []BenchmarkResult) (BenchmarkResult, bool) {
	var best BenchmarkResult
	found := false
	for _, res := range group {
		if res.Err != nil {
			continue
		}
		if !found || res.Duration < best.Duration {
			best, found = res, true
		}
	}
	return best, found
}

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/orchestration"
	"github.com/agbru/parsort/internal/progress"
	"github.com/agbru/parsort/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter with a
// terminal spinner.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for the running
// benchmark.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numAlgorithms int, out io.Writer) {
	DisplayProgress(wg, progressChan, numAlgorithms, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter with
// colorized tabular output.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

type tableRow struct {
	size, name, duration, rate, status string
	failed                             bool
}

// PresentComparisonTable displays one row per (size, algorithm) with
// duration, throughput and status. Padding is computed on the uncolored text
// so ANSI codes do not break alignment.
func (p CLIResultPresenter) PresentComparisonTable(results []orchestration.BenchmarkResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Benchmark Summary ---\n")

	headers := tableRow{size: "Elements", name: "Algorithm", duration: "Duration", rate: "Throughput", status: "Status"}
	rows := make([]tableRow, len(results))
	widths := [4]int{len(headers.size), len(headers.name), len(headers.duration), len(headers.rate)}
	for i, res := range results {
		row := tableRow{
			size:     format.FormatCount(res.Size),
			name:     res.Algorithm,
			duration: p.FormatDuration(res.Duration),
			rate:     format.FormatThroughput(res.Size, res.Duration),
			status:   "✅ Success",
		}
		if res.Err != nil {
			row.failed = true
			row.status = fmt.Sprintf("❌ Failure (%v)", res.Err)
			row.rate = "-"
		}
		rows[i] = row
		widths[0] = max(widths[0], len(row.size))
		widths[1] = max(widths[1], len(row.name))
		widths[2] = max(widths[2], len(row.duration))
		widths[3] = max(widths[3], len(row.rate))
	}

	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s%s%s%s   %s%s%s%s   %s%s%s\n",
		u, headers.size, r, padRight("", widths[0]-len(headers.size)),
		u, headers.name, r, padRight("", widths[1]-len(headers.name)),
		u, headers.duration, r, padRight("", widths[2]-len(headers.duration)),
		u, headers.rate, r, padRight("", widths[3]-len(headers.rate)),
		u, headers.status, r)

	for _, row := range rows {
		statusColor := ui.ColorGreen()
		if row.failed {
			statusColor = ui.ColorRed()
		}
		fmt.Fprintf(out, "%s%s   %s%s%s%s   %s%s%s%s   %s%s   %s%s%s\n",
			padRight("", widths[0]-len(row.size)), row.size,
			ui.ColorBlue(), row.name, r, padRight("", widths[1]-len(row.name)),
			ui.ColorYellow(), row.duration, r, padRight("", widths[2]-len(row.duration)),
			row.rate, padRight("", widths[3]-len(row.rate)),
			statusColor, row.status, r)
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PresentResult displays the fastest result of one input size and, in
// verbose mode, a sample of the sorted output.
func (p CLIResultPresenter) PresentResult(result orchestration.BenchmarkResult, opts orchestration.PresentationOptions, out io.Writer) {
	fmt.Fprintf(out, "Fastest for %s%s%s elements: %s%s%s%s in %s%s%s (%s).\n",
		ui.ColorMagenta(), format.FormatCount(result.Size), ui.ColorReset(),
		ui.ColorBold(), ui.ColorGreen(), result.Algorithm, ui.ColorReset(),
		ui.ColorYellow(), p.FormatDuration(result.Duration), ui.ColorReset(),
		format.FormatThroughput(result.Size, result.Duration))
	if opts.Verbose {
		fmt.Fprintf(out, "  Sample: %s\n", FormatSample(result.Output, SampleEdges))
	}
}

// FormatDuration formats a duration with the CLI's standard formatting.
// Zero durations render as "< 1µs".
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	if d == 0 {
		return "< 1µs"
	}
	return format.FormatExecutionDuration(d)
}

// HandleError prints the failure status and returns the exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return HandleError(err, duration, out)
}

// DisplayMemoryStats shows memory statistics after a benchmark run.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	if pauseTotalNs > 0 {
		fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
	} else {
		fmt.Fprintf(out, "  GC pause total:  0ms\n")
	}
}

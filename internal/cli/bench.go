package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/agbru/parsort/internal/config"
	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/sorting"
	"github.com/agbru/parsort/internal/sysmon"
	"github.com/agbru/parsort/internal/ui"
)

// PrintExecutionConfig displays the benchmark configuration: input sizes,
// timeout, environment and sorter tuning.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	sizes := make([]string, len(cfg.Sizes))
	for i, s := range cfg.Sizes {
		sizes[i] = format.FormatCount(s)
	}
	partitions := "auto"
	if cfg.Partitions > 0 {
		partitions = fmt.Sprint(cfg.Partitions)
	}

	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Sorting %s%s%s elements (seed %d) with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), strings.Join(sizes, ", "), ui.ColorReset(), cfg.Seed,
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Sorter: parallelism=%s%d%s, partitions=%s%s%s, pivot=%s%s%s.\n",
		ui.ColorCyan(), cfg.Parallelism, ui.ColorReset(),
		ui.ColorCyan(), partitions, ui.ColorReset(),
		ui.ColorCyan(), cfg.PivotStrategy(), ui.ColorReset())
}

// PrintExecutionMode displays which algorithms will run.
func PrintExecutionMode(algorithms []sorting.Algorithm, out io.Writer) {
	var modeDesc string
	switch len(algorithms) {
	case 0:
		modeDesc = "no algorithm selected"
	case 1:
		modeDesc = fmt.Sprintf("Single benchmark of the %s%s%s algorithm",
			ui.ColorGreen(), algorithms[0].Name(), ui.ColorReset())
	default:
		names := make([]string, len(algorithms))
		for i, a := range algorithms {
			names[i] = a.Name()
		}
		modeDesc = fmt.Sprintf("Comparison of %s%s%s", ui.ColorGreen(), strings.Join(names, ", "), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}

// PrintHostInfo displays the machine description collected by sysmon.
func PrintHostInfo(h sysmon.HostInfo, out io.Writer) {
	model := h.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	fmt.Fprintf(out, "Host: %s/%s, %s%s%s, %d logical cores (GOMAXPROCS %d), features: %s.\n",
		h.OS, h.Arch, ui.ColorCyan(), model, ui.ColorReset(), h.LogicalCores, h.GOMAXPROCS, h.Features)
	if h.TotalMemory > 0 {
		fmt.Fprintf(out, "Memory: %s total, %s available.\n",
			format.FormatBytes(h.TotalMemory), format.FormatBytes(h.AvailableMemory))
	}
}

package app

import (
	"context"
	"io"
	"slices"

	"github.com/agbru/parsort/internal/cli"
	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/memory"
	"github.com/agbru/parsort/internal/orchestration"
	"github.com/agbru/parsort/internal/sysmon"
)

// runBench runs every selected algorithm over generated inputs of each
// configured size and reports the comparison.
func (a *Application) runBench(ctx context.Context, out io.Writer) int {
	algorithms := orchestration.GetAlgorithmsToRun(a.Config.Algo, a.Registry)
	if len(algorithms) == 0 {
		return cli.HandleError(apperrors.NewConfigError("no algorithm selected: %s", a.Config.Algo), 0, a.ErrWriter)
	}

	est := memory.EstimateBenchmarkMemory(a.Config.Sizes, len(algorithms))
	if code := a.checkMemoryBudget(est, out); code != apperrors.ExitSuccess {
		return code
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		if a.Config.Verbose {
			cli.PrintHostInfo(sysmon.Host(), out)
		}
		cli.PrintExecutionMode(algorithms, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	largest := 0
	if len(a.Config.Sizes) > 0 {
		largest = slices.Max(a.Config.Sizes)
	}
	gc := memory.NewGCController(a.Config.GCMode, largest)
	gc.SetLogger(a.logger)
	gc.Begin()
	results := orchestration.ExecuteBenchmarks(ctx, algorithms, a.Config.Sizes, a.Config.Seed, reporter, progressOut)
	gc.End()

	opts := orchestration.PresentationOptions{Verbose: a.Config.Verbose, Quiet: a.Config.Quiet}
	code := orchestration.AnalyzeBenchmarkResults(results, opts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)

	if a.Config.Verbose && !a.Config.Quiet {
		stats := gc.Stats()
		cli.DisplayMemoryStats(stats.HeapAlloc, stats.TotalAlloc, stats.NumGC, stats.PauseTotalNs, out)
	}
	return code
}

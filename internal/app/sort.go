package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/agbru/parsort/internal/cli"
	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/memory"
	"github.com/agbru/parsort/internal/sorting"
)

// runSort reads numbers from the configured input, sorts them with the
// parallel coordinator and writes them to the configured output. When the
// values go to out, the summary goes to the error writer so that out holds
// only the sorted values.
func (a *Application) runSort(ctx context.Context, out io.Writer) int {
	values, err := a.readInput()
	if err != nil {
		return cli.HandleError(err, 0, a.ErrWriter)
	}

	summaryOut := a.ErrWriter
	if a.Config.OutputFile != "" {
		summaryOut = out
	}
	if code := a.checkMemoryBudget(memory.EstimateMemoryUsage(len(values)), summaryOut); code != apperrors.ExitSuccess {
		return code
	}

	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	coordinator := sorting.New[float64](a.coordinatorOptions()...)
	gc := memory.NewGCController(a.Config.GCMode, len(values))
	gc.SetLogger(a.logger)

	start := time.Now()
	gc.Begin()
	sorted, err := coordinator.Sort(ctx, values)
	gc.End()
	elapsed := time.Since(start)
	if err != nil {
		return cli.HandleError(err, elapsed, a.ErrWriter)
	}

	if a.Config.OutputFile != "" {
		err = cli.WriteValuesToFile(a.Config.OutputFile, sorted)
	} else {
		err = cli.WriteValues(out, sorted)
	}
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	cli.DisplaySortSummary(summaryOut, sorted, len(coordinator.Plan(len(values))), elapsed, cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
	})
	if a.Config.Verbose && !a.Config.Quiet {
		stats := gc.Stats()
		cli.DisplayMemoryStats(stats.HeapAlloc, stats.TotalAlloc, stats.NumGC, stats.PauseTotalNs, summaryOut)
	}
	return apperrors.ExitSuccess
}

// readInput reads the values named by --input; "-" is a.In.
func (a *Application) readInput() ([]float64, error) {
	if a.Config.InputFile == "-" {
		return cli.ReadValues(a.In)
	}
	f, err := os.Open(a.Config.InputFile)
	if err != nil {
		return nil, apperrors.ConfigError{Message: fmt.Sprintf("cannot open input: %v", err)}
	}
	defer f.Close()
	return cli.ReadValues(f)
}

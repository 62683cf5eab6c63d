package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/parsort/internal/config"
	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/logging"
	"github.com/agbru/parsort/internal/memory"
	"github.com/agbru/parsort/internal/orchestration"
	"github.com/agbru/parsort/internal/server"
	"github.com/agbru/parsort/internal/sorting"
	"github.com/agbru/parsort/internal/tui"
	"github.com/agbru/parsort/internal/ui"
)

// Application represents the parsort application instance.
type Application struct {
	Config config.AppConfig
	// Registry holds the algorithms available to bench mode. When not set
	// by an option, New builds the default registry from the parsed
	// configuration.
	Registry  *sorting.Registry
	ErrWriter io.Writer
	// In is read by sort mode when the input file is "-".
	In io.Reader

	logger  zerolog.Logger
	sortOps []sorting.Option
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets a custom algorithm registry.
func WithRegistry(r *sorting.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithInput sets the reader used for "--input -".
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// WithSortOptions appends coordinator options applied after those derived
// from the configuration.
func WithSortOptions(opts ...sorting.Option) AppOption {
	return func(a *Application) { a.sortOps = append(a.sortOps, opts...) }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	names := sorting.NewDefaultRegistry().List()
	if app.Registry != nil {
		names = app.Registry.List()
	}

	programName := "parsort"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, names)
	if err != nil {
		return nil, err
	}
	app.Config = config.ApplyAdaptiveParallelism(cfg)
	app.logger = logging.NewZerolog(errWriter, app.Config.LogLevel, app.Config.LogJSON)

	if app.Registry == nil {
		app.Registry = sorting.NewDefaultRegistry(app.coordinatorOptions()...)
	}
	return app, nil
}

// coordinatorOptions derives the coordinator settings from the configuration.
func (a *Application) coordinatorOptions() []sorting.Option {
	opts := []sorting.Option{
		sorting.WithParallelism(a.Config.Parallelism),
		sorting.WithPartitions(a.Config.Partitions),
		sorting.WithPivot(a.Config.PivotStrategy()),
		sorting.WithLogger(a.logger),
	}
	return append(opts, a.sortOps...)
}

// Run executes the application based on the configured mode and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.ShowVersion {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	ui.InitTheme(false)

	switch a.Config.Mode {
	case config.ModeServe:
		return a.runServe(ctx)
	case config.ModeSort:
		return a.runSort(ctx, out)
	}
	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runBench(ctx, out)
}

// lifecycle bounds ctx by the configured timeout and by SIGINT/SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// checkMemoryBudget compares est with --memory-limit. It prints the estimate
// unless quiet and returns a non-zero exit code when the run must not start.
func (a *Application) checkMemoryBudget(est memory.MemoryEstimate, out io.Writer) int {
	if a.Config.MemoryLimit == "" {
		return apperrors.ExitSuccess
	}
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid --memory-limit: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	if err := memory.CheckBudget(est, limit); err != nil {
		fmt.Fprintf(a.ErrWriter, "Estimated memory %s exceeds limit %s.\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
		return apperrors.ExitCodeFor(err)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	return apperrors.ExitSuccess
}

// runServe starts the HTTP server and blocks until a signal arrives.
func (a *Application) runServe(ctx context.Context) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(server.Config{
		Addr:           a.Config.Addr,
		Parallelism:    a.Config.Parallelism,
		Pivot:          a.Config.PivotStrategy(),
		RequestTimeout: a.Config.Timeout,
	}, logging.NewZerologAdapter(a.logger), a.sortOps...)

	a.logger.Info().Str("addr", a.Config.Addr).Int("parallelism", a.Config.Parallelism).Msg("server starting")
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	a.logger.Info().Msg("server stopped")
	return apperrors.ExitSuccess
}

// runTUI launches the interactive benchmark dashboard.
func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	algorithms := orchestration.GetAlgorithmsToRun(a.Config.Algo, a.Registry)
	return tui.Run(ctx, algorithms, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeForStartup maps an error returned by New to an exit code.
func ExitCodeForStartup(err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	var cfgErr apperrors.ConfigError
	if errors.As(err, &cfgErr) {
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitErrorGeneric
}

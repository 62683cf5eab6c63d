// Package config parses and validates the parsort command-line configuration.
// Values are resolved with the priority: CLI flags > environment variables
// (prefixed with EnvPrefix) > defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/sorting"
)

// EnvPrefix is the prefix of every environment variable read by parsort.
const EnvPrefix = "PARSORT_"

// Run modes.
const (
	ModeBench = "bench"
	ModeSort  = "sort"
	ModeServe = "serve"
)

// Defaults.
const (
	DefaultSizes   = "1000000,5000000"
	DefaultAlgo    = "all"
	DefaultSeed    = 1
	DefaultTimeout = 5 * time.Minute
	DefaultAddr    = ":8080"
	DefaultPivot   = "middle"
	DefaultGCMode  = "auto"
	DefaultLevel   = "info"
)

var (
	validModes    = []string{ModeBench, ModeSort, ModeServe}
	validGCModes  = []string{"auto", "aggressive", "disabled"}
	validLogLevel = []string{"trace", "debug", "info", "warn", "error"}
)

// AppConfig holds the resolved configuration of a parsort run.
type AppConfig struct {
	// Mode is one of ModeBench, ModeSort or ModeServe.
	Mode string
	// SizesRaw is the comma-separated list of benchmark input sizes as given.
	SizesRaw string
	// Sizes is SizesRaw parsed by Validate.
	Sizes []int
	// Algo selects the algorithms to run: "all" or a comma-separated list.
	Algo string
	// Seed makes generated benchmark inputs reproducible.
	Seed uint64
	// Parallelism bounds concurrent workers; 0 selects EstimateParallelism.
	Parallelism int
	// Partitions forces the partition count; 0 derives it from the input.
	Partitions int
	// Pivot is the local sorter's pivot strategy ("middle" or "median3").
	Pivot string
	// Timeout bounds a whole run.
	Timeout time.Duration
	// Quiet reduces output to the essential values.
	Quiet bool
	// Verbose prints extra details such as the sorted sample.
	Verbose bool
	// InputFile is read in sort mode; "-" is stdin.
	InputFile string
	// OutputFile receives the sorted values in sort mode; empty is stdout.
	OutputFile string
	// Addr is the listen address in serve mode.
	Addr string
	// TUI launches the interactive benchmark dashboard.
	TUI bool
	// LogLevel is the zerolog level name.
	LogLevel string
	// LogJSON switches log output from console to JSON.
	LogJSON bool
	// MemoryLimit caps the estimated memory of a run, e.g. "512M" or "2G".
	MemoryLimit string
	// GCMode controls the garbage collector during large runs.
	GCMode string
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// PivotStrategy returns the parsed pivot strategy. Validate guarantees it
// parses.
func (c AppConfig) PivotStrategy() sorting.PivotStrategy {
	s, err := sorting.ParsePivotStrategy(c.Pivot)
	if err != nil {
		return sorting.PivotMiddle
	}
	return s
}

// ParseConfig parses args (without the program name) into an AppConfig,
// applies environment overrides and validates the result. The first argument
// may name the mode ("bench", "sort" or "serve"). availableAlgos lists the
// names accepted by --algo.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	config := AppConfig{Mode: ModeBench}
	modeGiven := len(args) > 0 && !strings.HasPrefix(args[0], "-")
	if modeGiven {
		config.Mode = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [bench|sort|serve] [options]\n\n", programName)
		fmt.Fprintln(errorWriter, "Sorts float64 values with a partitioned parallel quicksort and k-way merge.")
		fmt.Fprintf(errorWriter, "Available algorithms: %s\n\nOptions:\n", strings.Join(availableAlgos, ", "))
		fs.PrintDefaults()
	}

	fs.StringVar(&config.SizesRaw, "sizes", DefaultSizes, "Comma-separated benchmark input sizes.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, "Algorithms to run: 'all' or a comma-separated list.")
	fs.Uint64Var(&config.Seed, "seed", DefaultSeed, "Seed for generated benchmark inputs.")
	fs.IntVar(&config.Parallelism, "parallelism", 0, "Maximum concurrent workers (0 = auto).")
	fs.IntVar(&config.Partitions, "partitions", 0, "Force the number of partitions (0 = auto).")
	fs.StringVar(&config.Pivot, "pivot", DefaultPivot, "Quicksort pivot strategy: middle or median3.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only essential output.")
	fs.BoolVar(&config.Quiet, "q", false, "Shorthand for --quiet.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Print detailed output.")
	fs.BoolVar(&config.Verbose, "v", false, "Shorthand for --verbose.")
	fs.StringVar(&config.InputFile, "input", "-", "Input file for sort mode, one number per line ('-' = stdin).")
	fs.StringVar(&config.InputFile, "i", "-", "Shorthand for --input.")
	fs.StringVar(&config.OutputFile, "output", "", "Output file for sort mode (default stdout).")
	fs.StringVar(&config.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&config.Addr, "addr", DefaultAddr, "Listen address for serve mode.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive benchmark dashboard.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLevel, "Log level: trace, debug, info, warn or error.")
	fs.BoolVar(&config.LogJSON, "log-json", false, "Emit JSON logs.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Maximum estimated memory, e.g. 512M or 2G.")
	fs.StringVar(&config.GCMode, "gc-mode", DefaultGCMode, "Garbage collector mode: auto, aggressive or disabled.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print the version and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected argument %q", fs.Arg(0))
	}

	applyEnvOverrides(&config, fs, modeGiven)

	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Error:", err)
		return AppConfig{}, err
	}
	return config, nil
}

// Validate checks the configuration and fills derived fields. It returns an
// apperrors.ConfigError describing the first problem found.
func (c *AppConfig) Validate(availableAlgos []string) error {
	if !slices.Contains(validModes, c.Mode) {
		return apperrors.NewConfigError("unknown mode %q (expected one of %s)", c.Mode, strings.Join(validModes, ", "))
	}

	sizes, err := ParseSizes(c.SizesRaw)
	if err != nil {
		return err
	}
	c.Sizes = sizes

	if err := validateAlgo(c.Algo, availableAlgos); err != nil {
		return err
	}
	if c.Parallelism < 0 {
		return apperrors.NewConfigError("--parallelism must be >= 0, got %d", c.Parallelism)
	}
	if c.Partitions < 0 {
		return apperrors.NewConfigError("--partitions must be >= 0, got %d", c.Partitions)
	}
	if _, err := sorting.ParsePivotStrategy(c.Pivot); err != nil {
		return apperrors.NewConfigError("invalid --pivot: %v", err)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("--timeout must be positive, got %s", c.Timeout)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if !slices.Contains(validGCModes, c.GCMode) {
		return apperrors.NewConfigError("unknown --gc-mode %q (expected one of %s)", c.GCMode, strings.Join(validGCModes, ", "))
	}
	if !slices.Contains(validLogLevel, c.LogLevel) {
		return apperrors.NewConfigError("unknown --log-level %q", c.LogLevel)
	}
	if c.Mode == ModeServe && c.Addr == "" {
		return apperrors.NewConfigError("--addr is required in serve mode")
	}
	if c.TUI && c.Mode != ModeBench {
		return apperrors.NewConfigError("--tui is only available in bench mode")
	}
	return nil
}

// ParseSizes parses a comma-separated list of positive input sizes.
func ParseSizes(raw string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(field, "_", ""))
		if err != nil || n <= 0 {
			return nil, apperrors.NewConfigError("invalid size %q in --sizes: must be a positive integer", field)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, apperrors.NewConfigError("--sizes must list at least one size")
	}
	return sizes, nil
}

func validateAlgo(algo string, available []string) error {
	if algo == "all" || len(available) == 0 {
		return nil
	}
	for _, name := range strings.Split(algo, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !slices.Contains(available, name) {
			return apperrors.NewConfigError("unknown algorithm %q (available: %s)", name, strings.Join(available, ", "))
		}
	}
	return nil
}

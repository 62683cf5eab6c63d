// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* and Print* functions write formatted output to an [io.Writer].
//     Examples: [DisplayProgress], [DisplaySortSummary], [PrintExecutionConfig].
//
//   - Format* functions return a formatted string without performing I/O.
//     Examples: [FormatSample].
//
//   - Read* and Write* functions move values between streams or files and
//     the sorter.
//     Examples: [ReadValues], [WriteValues], [WriteValuesToFile].

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/ui"
)

// maxLineBytes bounds a single input line.
const maxLineBytes = 1 << 20

// OutputConfig holds configuration for sort-mode output.
type OutputConfig struct {
	// OutputFile is the path to save the sorted values (empty for stdout).
	OutputFile string
	// Quiet suppresses the summary line.
	Quiet bool
	// Verbose adds a sample of the sorted values to the summary.
	Verbose bool
}

// ReadValues parses numbers separated by newlines or other whitespace.
// Blank lines and lines starting with '#' are skipped. A token that is not a
// number yields an apperrors.ValidationError naming its line.
func ReadValues(r io.Reader) ([]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var values []float64
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Fields(text) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, apperrors.ValidationError{
					Field:   "input",
					Message: fmt.Sprintf("line %d: %q is not a number", line, field),
				}
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return values, nil
}

// WriteValues writes one value per line in the shortest representation that
// round-trips.
func WriteValues(w io.Writer, values []float64) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, v := range values {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// WriteValuesToFile writes values to path, creating parent directories.
func WriteValuesToFile(path string, values []float64) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteValues(file, values); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// FormatSample renders the first and last edges values of a sorted slice,
// eliding the middle: "[1 2 3 … 98 99]".
func FormatSample(values []float64, edges int) string {
	if len(values) <= 2*edges {
		return fmt.Sprint(values)
	}
	head := strings.Trim(fmt.Sprint(values[:edges]), "[]")
	tail := strings.Trim(fmt.Sprint(values[len(values)-edges:]), "[]")
	return fmt.Sprintf("[%s … %s]", head, tail)
}

// DisplaySortSummary reports a completed sort-mode run.
func DisplaySortSummary(out io.Writer, sorted []float64, partitions int, duration time.Duration, cfg OutputConfig) {
	if cfg.Quiet {
		return
	}
	fmt.Fprintf(out, "%s✓ Sorted %s values%s across %d partition(s) in %s%s%s (%s).\n",
		ui.ColorGreen(), format.FormatCount(len(sorted)), ui.ColorReset(), partitions,
		ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset(),
		format.FormatThroughput(len(sorted), duration))
	if cfg.Verbose {
		fmt.Fprintf(out, "  Sample: %s\n", FormatSample(sorted, SampleEdges))
	}
	if cfg.OutputFile != "" {
		fmt.Fprintf(out, "  Written to: %s%s%s\n", ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
}

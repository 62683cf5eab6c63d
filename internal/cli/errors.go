package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/ui"
)

// HandleError prints a status line describing err and returns the matching
// exit code. duration is the elapsed time when known.
func HandleError(err error, duration time.Duration, out io.Writer) int {
	if err == nil {
		return apperrors.ExitSuccess
	}

	var (
		partErr    *apperrors.PartitionError
		timeoutErr apperrors.TimeoutError
		configErr  apperrors.ConfigError
		valErr     apperrors.ValidationError
		memErr     apperrors.MemoryError
	)
	elapsed := ""
	if duration > 0 {
		elapsed = " after " + format.FormatExecutionDuration(duration)
	}

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s%s.\n", ui.ColorYellow(), elapsed, ui.ColorReset())
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The run exceeded its time limit%s.%s\n", ui.ColorRed(), elapsed, ui.ColorReset())
	case errors.As(err, &partErr):
		fmt.Fprintf(out, "%sStatus: Failure (%s in partition %d)%s: %v%s\n",
			ui.ColorRed(), partErr.Kind, partErr.Partition, elapsed, partErr.Cause, ui.ColorReset())
	case errors.As(err, &valErr), errors.As(err, &configErr), errors.As(err, &memErr):
		fmt.Fprintf(out, "%sStatus: Invalid input. %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure. Unexpected error%s: %v%s\n", ui.ColorRed(), elapsed, err, ui.ColorReset())
	}
	return apperrors.ExitCodeFor(err)
}

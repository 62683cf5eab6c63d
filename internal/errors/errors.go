package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorMismatch = 3   // Indicates a result mismatch between sorting algorithms.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
//
// Returns:
//   - string: The error message string.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
// It allows for the creation of configuration-specific errors with dynamic
// content.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// FaultKind classifies a partition failure reported by the coordinator.
type FaultKind int

const (
	// WorkerFault means a worker aborted or signalled an internal error while
	// sorting its partition.
	WorkerFault FaultKind = iota + 1
	// CommunicationFault means the coordinator could not collect a result
	// from a dispatched worker.
	CommunicationFault
)

// String returns the name of the fault kind.
func (k FaultKind) String() string {
	switch k {
	case WorkerFault:
		return "worker fault"
	case CommunicationFault:
		return "communication fault"
	default:
		return "unknown fault"
	}
}

// PartitionError reports the failure of a single partition during a parallel
// sort. It names the failing partition and preserves the original cause.
type PartitionError struct {
	// Partition is the index of the partition whose worker failed.
	Partition int
	// Kind classifies the failure.
	Kind FaultKind
	// Cause is the underlying error that triggered the failure.
	Cause error
}

// Error returns a formatted message naming the partition and its cause.
//
// Returns:
//   - string: The error message string.
func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d: %s: %v", e.Partition, e.Kind, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
//
// Returns:
//   - error: The underlying cause of the PartitionError.
func (e *PartitionError) Unwrap() error { return e.Cause }

// NewWorkerFault creates a PartitionError of kind WorkerFault.
func NewWorkerFault(partition int, cause error) error {
	return &PartitionError{Partition: partition, Kind: WorkerFault, Cause: cause}
}

// NewCommunicationFault creates a PartitionError of kind CommunicationFault.
func NewCommunicationFault(partition int, cause error) error {
	return &PartitionError{Partition: partition, Kind: CommunicationFault, Cause: cause}
}

// TimeoutError represents a sort or benchmark timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
//
// Returns:
//   - string: The error message string.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
//
// Returns:
//   - string: The error message string.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MemoryError represents a memory limit exceeded condition. It captures the
// requested, available, and limit memory values for diagnostic purposes.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available (0 when unknown).
	Available uint64
	// Limit is the configured memory limit in bytes.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
//
// Returns:
//   - string: The error message string.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeFor maps an error returned by a sort or benchmark run to the
// process exit code the application should report.
//
// Parameters:
//   - err: The error to classify (nil means success).
//
// Returns:
//   - int: One of the Exit* constants.
func ExitCodeFor(err error) int {
	var (
		timeoutErr    TimeoutError
		configErr     ConfigError
		validationErr ValidationError
		memErr        MemoryError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &timeoutErr):
		return ExitErrorTimeout
	case errors.As(err, &configErr), errors.As(err, &validationErr), errors.As(err, &memErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

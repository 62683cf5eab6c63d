package memory

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/format"
)

// elementBytes is the size of one float64 key.
const elementBytes = 8

// MemoryEstimate breaks down the peak memory of sorting one input.
type MemoryEstimate struct {
	// InputBytes holds the caller's values.
	InputBytes uint64
	// WorkBytes holds the coordinator's private copy that workers sort.
	WorkBytes uint64
	// MergeBytes covers the two live buffers of a merge round.
	MergeBytes uint64
	// RetainedBytes holds outputs kept after the sort (benchmark results).
	RetainedBytes uint64
	// TotalBytes is the sum of the above.
	TotalBytes uint64
}

// EstimateMemoryUsage estimates the peak memory of one parallel sort of n
// elements: the input, the worker copy and the buffers of the merge round.
func EstimateMemoryUsage(n int) MemoryEstimate {
	if n < 0 {
		n = 0
	}
	size := uint64(n) * elementBytes
	est := MemoryEstimate{
		InputBytes: size,
		WorkBytes:  size,
		MergeBytes: 2 * size,
	}
	est.TotalBytes = est.InputBytes + est.WorkBytes + est.MergeBytes
	return est
}

// EstimateBenchmarkMemory estimates a benchmark over sizes with numAlgorithms
// algorithms. Every output is retained for cross-checking, so retained bytes
// accumulate over the run while the working set peaks at the largest size.
func EstimateBenchmarkMemory(sizes []int, numAlgorithms int) MemoryEstimate {
	var peak MemoryEstimate
	var retained uint64
	for _, n := range sizes {
		est := EstimateMemoryUsage(n)
		if est.TotalBytes > peak.TotalBytes {
			peak = est
		}
		retained += uint64(max(n, 0)) * elementBytes * uint64(max(numAlgorithms, 0))
	}
	peak.RetainedBytes = retained
	peak.TotalBytes = peak.InputBytes + peak.WorkBytes + peak.MergeBytes + retained
	return peak
}

// FormatMemoryEstimate renders the total of est, e.g. "152.6 MiB".
func FormatMemoryEstimate(est MemoryEstimate) string {
	return format.FormatBytes(est.TotalBytes)
}

// ParseMemoryLimit parses a byte size such as "512M", "2G", "1.5GiB" or
// "1048576". Suffixes are binary multiples and case-insensitive.
func ParseMemoryLimit(s string) (uint64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, apperrors.NewConfigError("empty memory limit")
	}
	s = strings.TrimSuffix(strings.TrimSuffix(s, "IB"), "B")

	multiplier := uint64(1)
	if n := len(s); n > 0 {
		switch s[n-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		case 'T':
			multiplier = 1 << 40
		}
		if multiplier > 1 {
			s = s[:n-1]
		}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value <= 0 {
		return 0, apperrors.NewConfigError("invalid memory limit %q", s)
	}
	return uint64(value * float64(multiplier)), nil
}

// CheckBudget returns an apperrors.MemoryError when est exceeds limit.
// A zero limit means unlimited.
func CheckBudget(est MemoryEstimate, limit uint64) error {
	if limit == 0 || est.TotalBytes <= limit {
		return nil
	}
	return apperrors.MemoryError{Requested: est.TotalBytes, Limit: limit}
}

// Describe renders the breakdown of est for verbose output.
func Describe(est MemoryEstimate) string {
	return fmt.Sprintf("input %s + work %s + merge %s + retained %s = %s",
		format.FormatBytes(est.InputBytes), format.FormatBytes(est.WorkBytes),
		format.FormatBytes(est.MergeBytes), format.FormatBytes(est.RetainedBytes),
		format.FormatBytes(est.TotalBytes))
}

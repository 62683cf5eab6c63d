// Package progress defines the progress messages exchanged between the
// benchmark driver and its presentation layers (CLI spinner, TUI).
package progress

// ProgressUpdate reports the completion fraction of one benchmarked
// algorithm.
type ProgressUpdate struct {
	// Index is the position of the algorithm in the benchmark run.
	Index int
	// Value is the completed fraction of the algorithm's work, in [0, 1].
	Value float64
	// Size is the input size the update refers to, or 0 when not size
	// specific.
	Size int
}

// Report sends an update without blocking. It returns false when the
// channel is nil or full and the update was dropped.
func Report(ch chan<- ProgressUpdate, update ProgressUpdate) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- update:
		return true
	default:
		return false
	}
}

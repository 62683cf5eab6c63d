package orchestration

import (
	"time"

	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/progress"
)

// ProgressAggregator combines per-algorithm progress into an overall
// fraction and ETA. Both CLI and TUI use it to consume the progress channel.
type ProgressAggregator struct {
	state         *format.ProgressWithETA
	numAlgorithms int
}

// NewProgressAggregator creates an aggregator for numAlgorithms algorithms.
// Returns nil if numAlgorithms <= 0.
func NewProgressAggregator(numAlgorithms int) *ProgressAggregator {
	if numAlgorithms <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:         format.NewProgressWithETA(numAlgorithms),
		numAlgorithms: numAlgorithms,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	// Index is the algorithm that sent the update.
	Index int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// Size is the input size the update refers to.
	Size int
	// AverageProgress is the mean over all algorithms.
	AverageProgress float64
	// ETA is the estimated time remaining.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.Index, update.Value)
	return AggregatedProgress{
		Index:           update.Index,
		Value:           update.Value,
		Size:            update.Size,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumAlgorithms returns the number of algorithms being tracked.
func (a *ProgressAggregator) NumAlgorithms() int {
	return a.numAlgorithms
}

// IsMultiAlgorithm returns true if tracking more than one algorithm.
func (a *ProgressAggregator) IsMultiAlgorithm() bool {
	return a.numAlgorithms > 1
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}

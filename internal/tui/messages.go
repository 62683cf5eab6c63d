package tui

import (
	"time"

	"github.com/agbru/parsort/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	AlgorithmIndex  int
	Value           float64
	Size            int
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ResultsMsg carries every benchmark result once the run has finished.
type ResultsMsg struct {
	Results []orchestration.BenchmarkResult
}

// FastestMsg carries the fastest consistent result of one size.
type FastestMsg struct {
	Result orchestration.BenchmarkResult
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapInuse    uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// BenchmarkCompleteMsg is sent when a run has been analyzed.
type BenchmarkCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run's context is done.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

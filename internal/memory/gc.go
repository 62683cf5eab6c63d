package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls garbage collector behavior during a run.
type GCMode string

const (
	// GCModeAuto suspends the collector only for inputs of at least
	// GCAutoThreshold elements.
	GCModeAuto GCMode = "auto"
	// GCModeAggressive always suspends the collector.
	GCModeAggressive GCMode = "aggressive"
	// GCModeDisabled leaves the collector untouched.
	GCModeDisabled GCMode = "disabled"
)

// GCAutoThreshold is the element count from which GCModeAuto suspends the
// collector.
const GCAutoThreshold = 1_000_000

// memoryLimitFactor scales the heap observed at Begin into the soft memory
// limit kept while the collector is suspended.
const memoryLimitFactor = 3

// GCController suspends the garbage collector for the duration of a large
// run and restores it afterward. It records memory statistics between Begin
// and End whether or not it is active.
type GCController struct {
	mode              GCMode
	active            bool
	originalGCPercent int
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds memory statistics for a run.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a controller for mode and a run over n elements.
// Unknown modes behave like GCModeDisabled.
func NewGCController(mode string, n int) *GCController {
	gc := &GCController{mode: GCMode(mode), logger: zerolog.Nop()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = n >= GCAutoThreshold
	}
	return gc
}

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Active reports whether Begin suspends the collector.
func (gc *GCController) Active() bool { return gc.active }

// Begin records the starting statistics and, when active, suspends the
// collector under a soft memory limit that guards against OOM.
func (gc *GCController) Begin() {
	runtime.ReadMemStats(&gc.startStats)
	if !gc.active {
		return
	}
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if limit := int64(gc.startStats.Sys) * memoryLimitFactor; limit > 0 {
		debug.SetMemoryLimit(limit)
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc suspended")
}

// End records the final statistics and, when active, restores the
// collector and runs a collection.
func (gc *GCController) End() {
	runtime.ReadMemStats(&gc.endStats)
	if !gc.active {
		return
	}
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	stats := gc.Stats()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", stats.HeapAlloc).
		Uint64("total_alloc_bytes", stats.TotalAlloc).
		Uint32("gc_cycles", stats.NumGC).
		Msg("gc restored")
}

// Stats returns the statistics delta between Begin and End.
func (gc *GCController) Stats() GCStats {
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}

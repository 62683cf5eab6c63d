package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in use by application
	HeapSys      uint64 // bytes obtained from OS for heap
	Sys          uint64 // total bytes obtained from OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // number of completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
	HeapObjects  uint64 // number of allocated heap objects
}

// MemoryDelta is the change between two snapshots taken around a run.
type MemoryDelta struct {
	Allocated uint64
	GCCycles  uint32
	PauseNs   uint64
	PeakHeap  uint64
}

// MemoryCollector reads runtime memory statistics and tracks the highest
// heap observed across its snapshots.
type MemoryCollector struct {
	peakHeap uint64
}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics. It is not safe for concurrent
// use on the same collector.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	if m.HeapAlloc > mc.peakHeap {
		mc.peakHeap = m.HeapAlloc
	}
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
		HeapObjects:  m.HeapObjects,
	}
}

// PeakHeap returns the largest HeapAlloc seen by Snapshot.
func (mc *MemoryCollector) PeakHeap() uint64 { return mc.peakHeap }

// Delta computes the change from before to after.
func (mc *MemoryCollector) Delta(before, after MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated: after.TotalAlloc - before.TotalAlloc,
		GCCycles:  after.NumGC - before.NumGC,
		PauseNs:   after.PauseTotalNs - before.PauseTotalNs,
		PeakHeap:  mc.peakHeap,
	}
}

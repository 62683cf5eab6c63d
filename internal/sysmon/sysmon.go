// Package sysmon samples system-wide CPU and memory usage and describes the
// host a benchmark runs on.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
	// PerCore holds per-logical-core usage, when available.
	PerCore []float64
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	if perCore, err := cpu.Percent(0, true); err == nil {
		s.PerCore = perCore
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// BusyCores counts the cores of s above threshold percent. A parallel sort
// that saturates the machine shows most cores busy.
func (s Stats) BusyCores(threshold float64) int {
	n := 0
	for _, p := range s.PerCore {
		if p >= threshold {
			n++
		}
	}
	return n
}

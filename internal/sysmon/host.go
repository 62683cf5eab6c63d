package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// HostInfo describes the machine a benchmark runs on.
type HostInfo struct {
	OS           string
	Arch         string
	CPUModel     string
	LogicalCores int
	GOMAXPROCS   int
	TotalMemory  uint64
	// AvailableMemory is the memory the OS reports as available now.
	AvailableMemory uint64
	Features        string
}

// Host collects HostInfo. Fields gopsutil cannot read are left zero.
func Host() HostInfo {
	h := HostInfo{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		LogicalCores: runtime.NumCPU(),
		GOMAXPROCS:   runtime.GOMAXPROCS(0),
		Features:     CPUFeatures(),
	}
	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		h.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.LogicalCores = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		h.TotalMemory = vmem.Total
		h.AvailableMemory = vmem.Available
	}
	return h
}

// CPUFeatures lists the vector extensions detected on the current CPU,
// e.g. "avx2 fma" on amd64 or "asimd" on arm64. It returns "none" when
// no known extension is present.
func CPUFeatures() string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasSSE42, "sse4.2")
		add(xcpu.X86.HasAVX, "avx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasFMA, "fma")
		add(xcpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
		add(xcpu.ARM64.HasSVE2, "sve2")
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, " ")
}

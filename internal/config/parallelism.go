package config

import "runtime"

// Parallelism resolution chain (highest priority first):
//   1. CLI flag (--parallelism)
//   2. Environment variable (PARSORT_PARALLELISM)
//   3. Adaptive hardware estimation (this file)

// ApplyAdaptiveParallelism fills Parallelism from the hardware when it is
// left at its zero default, preserving any explicit override.
func ApplyAdaptiveParallelism(cfg AppConfig) AppConfig {
	if cfg.Parallelism == 0 {
		cfg.Parallelism = EstimateParallelism()
	}
	return cfg
}

// EstimateParallelism returns the number of workers a sort should run at
// once: the scheduler's GOMAXPROCS, capped by the number of logical CPUs.
func EstimateParallelism() int {
	procs := runtime.GOMAXPROCS(0)
	if cpus := runtime.NumCPU(); cpus < procs {
		procs = cpus
	}
	return max(procs, 1)
}

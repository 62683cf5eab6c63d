// Package metrics exposes Prometheus instrumentation for sort runs and
// runtime memory snapshots for reports.
package metrics

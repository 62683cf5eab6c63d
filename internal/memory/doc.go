// Package memory estimates the footprint of sort and benchmark runs, enforces
// the --memory-limit budget, and controls the garbage collector around large
// runs.
package memory

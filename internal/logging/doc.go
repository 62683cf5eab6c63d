// Package logging provides a unified logging interface for parsort.
// It abstracts the underlying logging implementation, allowing consistent logging
// across the CLI, the HTTP server and the benchmark driver while supporting
// multiple backends (zerolog and the standard library logger).
package logging

// Package orchestration drives benchmark runs: it generates inputs, runs each
// selected sorting algorithm on its own copy, and cross-checks the outputs.
// It is decoupled from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration

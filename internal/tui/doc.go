// Package tui implements the interactive benchmark dashboard (--tui).
//
// The dashboard runs the same orchestration as the CLI. Bridge types
// implement the orchestration reporter and presenter interfaces and forward
// every event to the bubbletea program as a message, so all rendering
// happens on the program's goroutine.
package tui

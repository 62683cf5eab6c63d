package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/parsort/internal/format"
)

// HeaderModel renders the top bar: title, version, input sizes and elapsed
// time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	sizes     []int
	width     int
}

// NewHeaderModel creates a header for a run over sizes.
func NewHeaderModel(version string, sizes []int) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		sizes:     sizes,
	}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the elapsed timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen elapsed time.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	title := "parsort bench"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	sizes := make([]string, len(h.sizes))
	for i, n := range h.sizes {
		sizes[i] = format.FormatCount(n)
	}

	pipe := separatorStyle.Render(" | ")
	row := titleStyle.Render(title) +
		pipe + metricLabelStyle.Render("Sizes: ") + metricValueStyle.Render(strings.Join(sizes, ", ")) +
		pipe + elapsedStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))

	return headerStyle.Width(max(h.width, 0)).Render(row)
}

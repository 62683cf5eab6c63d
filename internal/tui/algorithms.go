package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/orchestration"
)

// algoStatus is the run state of one algorithm row.
type algoStatus int

const (
	statusPending algoStatus = iota
	statusRunning
	statusDone
	statusFailed
)

func (s algoStatus) String() string {
	switch s {
	case statusRunning:
		return "RUN"
	case statusDone:
		return "OK"
	case statusFailed:
		return "FAIL"
	default:
		return "WAIT"
	}
}

// Column widths of the algorithm table.
const (
	colWidthName   = 12
	colWidthSize   = 12
	colWidthPct    = 7
	colWidthDur    = 10
	colWidthStatus = 6
	minBarWidth    = 5
)

// algoRow tracks one algorithm across every input size.
type algoRow struct {
	name     string
	progress float64
	size     int
	total    time.Duration
	status   algoStatus
}

// AlgorithmsModel renders one row per algorithm with its progress, the
// size currently being sorted, its accumulated sort time and its status.
type AlgorithmsModel struct {
	rows  []algoRow
	width int
}

// NewAlgorithmsModel creates a table for the named algorithms.
func NewAlgorithmsModel(names []string) AlgorithmsModel {
	rows := make([]algoRow, len(names))
	for i, name := range names {
		rows[i] = algoRow{name: name}
	}
	return AlgorithmsModel{rows: rows}
}

// SetWidth updates the available width.
func (a *AlgorithmsModel) SetWidth(w int) { a.width = w }

// Height returns the number of lines View renders.
func (a AlgorithmsModel) Height() int { return len(a.rows) + 4 }

// UpdateProgress applies a progress update to its row.
func (a *AlgorithmsModel) UpdateProgress(msg ProgressMsg) {
	if msg.AlgorithmIndex < 0 || msg.AlgorithmIndex >= len(a.rows) {
		return
	}
	row := &a.rows[msg.AlgorithmIndex]
	row.progress = msg.Value
	row.size = msg.Size
	if row.status == statusPending {
		row.status = statusRunning
	}
}

// ApplyResults sets durations and final statuses from the results.
func (a *AlgorithmsModel) ApplyResults(results []orchestration.BenchmarkResult) {
	index := make(map[string]int, len(a.rows))
	for i, row := range a.rows {
		index[row.name] = i
		a.rows[i].total = 0
	}
	for _, r := range results {
		i, ok := index[r.Algorithm]
		if !ok {
			continue
		}
		row := &a.rows[i]
		row.total += r.Duration
		row.progress = 1
		switch {
		case r.Err != nil:
			row.status = statusFailed
		case row.status != statusFailed:
			row.status = statusDone
		}
	}
}

// Reset returns every row to pending.
func (a *AlgorithmsModel) Reset() {
	for i := range a.rows {
		a.rows[i] = algoRow{name: a.rows[i].name}
	}
}

func (a AlgorithmsModel) barWidth() int {
	fixed := 2 + colWidthName + colWidthSize + colWidthPct + colWidthDur + colWidthStatus + 5
	return max(a.width-fixed-4, minBarWidth)
}

// View renders the table.
func (a AlgorithmsModel) View() string {
	barWidth := a.barWidth()
	cell := func(w int, align lipgloss.Position) lipgloss.Style {
		return lipgloss.NewStyle().Width(w).Align(align)
	}
	line := func(name, size, bar, pct, dur, status string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, "  ",
			cell(colWidthName, lipgloss.Left).Render(name), " ",
			cell(colWidthSize, lipgloss.Right).Render(size), " ",
			cell(barWidth, lipgloss.Left).Render(bar), " ",
			cell(colWidthPct, lipgloss.Right).Render(pct), " ",
			cell(colWidthDur, lipgloss.Right).Render(dur), " ",
			cell(colWidthStatus, lipgloss.Center).Render(status),
		)
	}

	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Algorithms"))
	b.WriteString("\n")
	b.WriteString(tableHeaderStyle.Render(line("Algorithm", "Size", "Progress", "%", "Time", "State")))
	for _, row := range a.rows {
		b.WriteString("\n")
		size := "-"
		if row.size > 0 {
			size = format.FormatCount(row.size)
		}
		dur := "-"
		if row.total > 0 {
			dur = format.FormatExecutionDuration(row.total)
		}
		b.WriteString(line(
			logAlgoStyle.Render(truncateString(row.name, colWidthName)),
			size,
			renderBar(row.progress, barWidth),
			fmt.Sprintf("%.1f%%", min(max(row.progress, 0), 1)*100),
			dur,
			statusStyle(row.status).Render(row.status.String()),
		))
	}
	return panelStyle.Width(max(a.width-2, 0)).Render(b.String())
}

func renderBar(progress float64, width int) string {
	p := min(max(progress, 0), 1)
	filled := int(p * float64(width))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func statusStyle(s algoStatus) lipgloss.Style {
	switch s {
	case statusDone:
		return statusDoneStyle
	case statusFailed:
		return statusErrorStyle
	case statusRunning:
		return statusRunningStyle
	default:
		return metricLabelStyle
	}
}

// truncateString shortens s to maxLen runes, ending with "…".
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}

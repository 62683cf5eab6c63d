package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/orchestration"
)

// twoColumnMinWidth is the panel width from which metrics are laid out in
// two columns.
const twoColumnMinWidth = 60

// MetricsModel displays runtime memory figures, benchmark speed and the
// best measured throughput.
type MetricsModel struct {
	alloc        uint64
	heapInuse    uint64
	numGC        uint32
	pauseTotalNs uint64
	numGoroutine int
	speed        float64 // progress fraction per second, smoothed
	lastProgress float64
	lastUpdate   time.Time
	best         *orchestration.BenchmarkResult
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{lastUpdate: time.Now()}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats stores a runtime memory sample.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.alloc = msg.Alloc
	m.heapInuse = msg.HeapInuse
	m.numGC = msg.NumGC
	m.pauseTotalNs = msg.PauseTotalNs
	m.numGoroutine = msg.NumGoroutine
}

// UpdateProgress updates the smoothed speed from the overall progress.
// Updates closer than 50ms apart or without forward progress are ignored.
func (m *MetricsModel) UpdateProgress(progress float64) {
	now := time.Now()
	dt := now.Sub(m.lastUpdate).Seconds()
	if dt <= 0.05 {
		return
	}
	if dp := progress - m.lastProgress; dp > 0 {
		instant := dp / dt
		if m.speed > 0 {
			m.speed = 0.7*m.speed + 0.3*instant
		} else {
			m.speed = instant
		}
		m.lastProgress = progress
	}
	m.lastUpdate = now
}

// UpdateResults keeps the successful result with the highest throughput.
func (m *MetricsModel) UpdateResults(results []orchestration.BenchmarkResult) {
	for i := range results {
		r := results[i]
		if r.Err != nil || r.Duration <= 0 {
			continue
		}
		if m.best == nil || throughput(r) > throughput(*m.best) {
			m.best = &r
		}
	}
}

func throughput(r orchestration.BenchmarkResult) float64 {
	return float64(r.Size) / r.Duration.Seconds()
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	var rows strings.Builder
	rows.WriteString(panelTitleStyle.Render("Metrics"))

	colWidth := max((m.width-6)/2, 0)
	remaining := "n/a"
	if m.speed > 0 {
		remaining = format.FormatETA(time.Duration((1 - m.lastProgress) / m.speed * float64(time.Second)))
	}
	left := []string{
		formatMetricCol("Memory:", format.FormatBytes(m.alloc), colWidth),
		formatMetricCol("GC Runs:", fmt.Sprintf("%d (%.1fms)", m.numGC, float64(m.pauseTotalNs)/1e6), colWidth),
		formatMetricCol("Speed:", fmt.Sprintf("%.1f%%/s", m.speed*100), colWidth),
	}
	right := []string{
		formatMetricCol("Heap:", format.FormatBytes(m.heapInuse), colWidth),
		formatMetricCol("Goroutines:", fmt.Sprintf("%d", m.numGoroutine), colWidth),
		formatMetricCol("Remaining:", remaining, colWidth),
	}
	for i := range left {
		rows.WriteString("\n")
		rows.WriteString(left[i])
		if m.width < twoColumnMinWidth {
			rows.WriteString("\n")
		}
		rows.WriteString(right[i])
	}
	if m.best != nil {
		rows.WriteString("\n")
		rows.WriteString(formatMetricCol("Best:", fmt.Sprintf("%s %s (%s)",
			m.best.Algorithm, format.FormatThroughput(m.best.Size, m.best.Duration),
			format.FormatCount(m.best.Size)), colWidth*2))
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(rows.String())
}

func formatMetricCol(label, value string, colWidth int) string {
	cell := fmt.Sprintf(" %s %s",
		metricLabelStyle.Render(fmt.Sprintf("%-11s", label)),
		metricValueStyle.Render(value))
	if visible := lipgloss.Width(cell); visible < colWidth {
		cell += strings.Repeat(" ", colWidth-visible)
	}
	return cell
}

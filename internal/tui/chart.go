package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/parsort/internal/format"
)

// sparklineOverhead is the width taken by the sparkline label, the current
// value and the panel borders.
const sparklineOverhead = 17

// minSparklineHeight is the panel height from which the CPU and memory
// sparklines are shown.
const minSparklineHeight = 10

// ChartModel shows overall benchmark progress and the system load history.
type ChartModel struct {
	averageProgress float64
	eta             time.Duration
	done            bool
	elapsed         time.Duration
	cpuHistory      *RingBuffer
	memHistory      *RingBuffer
	width           int
	height          int
}

// NewChartModel creates an empty chart.
func NewChartModel() ChartModel {
	return ChartModel{
		cpuHistory: NewRingBuffer(60),
		memHistory: NewRingBuffer(60),
	}
}

// SetSize updates dimensions and fits the history to the sparkline width.
func (c *ChartModel) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.cpuHistory.Resize(w - sparklineOverhead)
	c.memHistory.Resize(w - sparklineOverhead)
}

// AddDataPoint records an aggregated progress update.
func (c *ChartModel) AddDataPoint(_ float64, average float64, eta time.Duration) {
	c.averageProgress = average
	c.eta = eta
}

// UpdateSysStats appends a system load sample.
func (c *ChartModel) UpdateSysStats(cpuPercent, memPercent float64) {
	c.cpuHistory.Push(cpuPercent)
	c.memHistory.Push(memPercent)
}

// SetDone freezes the chart with the total run time.
func (c *ChartModel) SetDone(elapsed time.Duration) {
	c.done = true
	c.elapsed = elapsed
	c.averageProgress = 1
}

// Reset clears progress and history.
func (c *ChartModel) Reset() {
	c.averageProgress = 0
	c.eta = 0
	c.done = false
	c.elapsed = 0
	c.cpuHistory.Reset()
	c.memHistory.Reset()
}

// renderProgressBar renders "bar  42.0%", or "" when the panel is too
// narrow for a bar.
func (c ChartModel) renderProgressBar() string {
	barWidth := c.width - 14
	if barWidth < 5 {
		return ""
	}
	p := min(max(c.averageProgress, 0), 1)
	filled := int(p * float64(barWidth))
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled)) +
		metricValueStyle.Render(fmt.Sprintf(" %5.1f%%", p*100))
}

func (c ChartModel) renderSparkline(label string, history *RingBuffer) string {
	style := cpuSparklineStyle
	if label == "MEM" {
		style = memSparklineStyle
	}
	return fmt.Sprintf(" %s %s %s",
		metricLabelStyle.Render(label),
		style.Render(RenderSparkline(history.Slice())),
		metricValueStyle.Render(fmt.Sprintf("%5.1f%%", history.Last())))
}

// View renders the chart panel.
func (c ChartModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render("Benchmark Progress"))
	b.WriteString("\n")
	if bar := c.renderProgressBar(); bar != "" {
		b.WriteString(" " + bar + "\n")
	}
	if c.done {
		b.WriteString(" " + metricLabelStyle.Render("Done in ") +
			metricValueStyle.Render(format.FormatExecutionDuration(c.elapsed)))
	} else {
		b.WriteString(" " + metricLabelStyle.Render("ETA: ") + metricValueStyle.Render(format.FormatETA(c.eta)))
	}

	if c.height >= minSparklineHeight {
		b.WriteString("\n\n")
		b.WriteString(c.renderSparkline("CPU", c.cpuHistory))
		b.WriteString("\n")
		b.WriteString(c.renderSparkline("MEM", c.memHistory))
		b.WriteString("\n")
		b.WriteString(metricLabelStyle.Render(fmt.Sprintf(" avg cpu %.1f%%  peak %.1f%%",
			c.cpuHistory.Mean(), c.cpuHistory.Peak())))
	}

	return panelStyle.
		Width(max(c.width-2, 0)).
		Height(max(c.height-2, 0)).
		Render(b.String())
}

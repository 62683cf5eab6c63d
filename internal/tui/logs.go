package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/parsort/internal/config"
	"github.com/agbru/parsort/internal/format"
	"github.com/agbru/parsort/internal/orchestration"
)

// milestoneStep is the progress step at which an algorithm's progress is
// logged.
const milestoneStep = 0.25

// LogsModel is a scrollable event log of the run.
type LogsModel struct {
	names      []string
	entries    []string
	milestones map[int]float64
	viewport   viewport.Model
	width      int
	height     int
}

// NewLogsModel creates an empty log for the named algorithms.
func NewLogsModel(names []string) LogsModel {
	return LogsModel{
		names:      names,
		milestones: make(map[int]float64),
		viewport:   viewport.New(0, 0),
	}
}

// SetSize updates dimensions.
func (l *LogsModel) SetSize(w, h int) {
	l.width = w
	l.height = h
	l.viewport.Width = max(w-4, 0)
	l.viewport.Height = max(h-3, 1)
	l.refresh()
}

func (l *LogsModel) add(line string) {
	stamp := logTimeStyle.Render(time.Now().Format("15:04:05"))
	l.entries = append(l.entries, stamp+" "+line)
	l.refresh()
}

func (l *LogsModel) refresh() {
	atBottom := l.viewport.AtBottom()
	l.viewport.SetContent(strings.Join(l.entries, "\n"))
	if atBottom {
		l.viewport.GotoBottom()
	}
}

// AddExecutionConfig logs the run configuration.
func (l *LogsModel) AddExecutionConfig(cfg config.AppConfig) {
	sizes := make([]string, len(cfg.Sizes))
	for i, n := range cfg.Sizes {
		sizes[i] = format.FormatCount(n)
	}
	partitions := "auto"
	if cfg.Partitions > 0 {
		partitions = fmt.Sprintf("%d", cfg.Partitions)
	}
	l.add(fmt.Sprintf("Benchmark: sizes %s, seed %d", strings.Join(sizes, ", "), cfg.Seed))
	l.add(fmt.Sprintf("Parallelism %d, partitions %s, pivot %s", cfg.Parallelism, partitions, cfg.Pivot))
	l.add("Algorithms: " + logAlgoStyle.Render(strings.Join(l.names, ", ")))
}

// AddProgressEntry logs each time an algorithm crosses a milestone.
func (l *LogsModel) AddProgressEntry(msg ProgressMsg) {
	reached := float64(int(msg.Value/milestoneStep)) * milestoneStep
	if reached <= l.milestones[msg.AlgorithmIndex] {
		return
	}
	l.milestones[msg.AlgorithmIndex] = reached
	l.add(fmt.Sprintf("%s %3.0f%% (size %s)",
		logAlgoStyle.Render(l.name(msg.AlgorithmIndex)), reached*100, format.FormatCount(msg.Size)))
}

func (l *LogsModel) name(i int) string {
	if i >= 0 && i < len(l.names) {
		return l.names[i]
	}
	return fmt.Sprintf("#%d", i)
}

// AddResults logs one line per result.
func (l *LogsModel) AddResults(results []orchestration.BenchmarkResult) {
	for _, r := range results {
		if r.Err != nil {
			l.add(fmt.Sprintf("%s %s: %s",
				logAlgoStyle.Render(r.Algorithm), format.FormatCount(r.Size), logErrorStyle.Render(r.Err.Error())))
			continue
		}
		l.add(fmt.Sprintf("%s %s: %s (%s)",
			logAlgoStyle.Render(r.Algorithm), format.FormatCount(r.Size),
			format.FormatExecutionDuration(r.Duration), format.FormatThroughput(r.Size, r.Duration)))
	}
}

// AddFastest logs the fastest result of one size.
func (l *LogsModel) AddFastest(r orchestration.BenchmarkResult) {
	l.add(logSuccessStyle.Render(fmt.Sprintf("Fastest for %s elements: %s in %s",
		format.FormatCount(r.Size), r.Algorithm, format.FormatExecutionDuration(r.Duration))))
}

// AddError logs a failed run.
func (l *LogsModel) AddError(msg ErrorMsg) {
	l.add(logErrorStyle.Render("Error: " + msg.Err.Error()))
}

// Len returns the number of entries.
func (l LogsModel) Len() int { return len(l.entries) }

// Reset clears the log.
func (l *LogsModel) Reset() {
	l.entries = nil
	l.milestones = make(map[int]float64)
	l.refresh()
}

// Update scrolls the log.
func (l *LogsModel) Update(msg tea.Msg) {
	l.viewport, _ = l.viewport.Update(msg)
}

// View renders the log panel.
func (l LogsModel) View() string {
	return panelStyle.
		Width(max(l.width-2, 0)).
		Height(max(l.height-2, 0)).
		Render(panelTitleStyle.Render("Events") + "\n" + l.viewport.View())
}

package tui

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/parsort/internal/config"
	apperrors "github.com/agbru/parsort/internal/errors"
	"github.com/agbru/parsort/internal/orchestration"
	"github.com/agbru/parsort/internal/sorting"
	"github.com/agbru/parsort/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight          = 1
	footerHeight          = 1
	minBodyHeight         = 8
	LogsPanelWidthPercent = 55
	MetricsPanelHeight    = 8
	tickInterval          = 500 * time.Millisecond
)

// ExecutionState holds the benchmark run of a dashboard session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	algorithms []sorting.Algorithm
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and derives panel sizes.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) leftWidth() int {
	return l.width * LogsPanelWidthPercent / 100
}

func (l LayoutManager) rightWidth() int {
	return l.width - l.leftWidth()
}

func (l LayoutManager) metricsHeight() int {
	return min(MetricsPanelHeight, l.bodyHeight()/2)
}

func (l LayoutManager) chartHeight() int {
	return l.bodyHeight() - l.metricsHeight()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header     HeaderModel
	table      AlgorithmsModel
	logs       LogsModel
	metrics    MetricsModel
	chart      ChartModel
	footer     FooterModel

	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
	paused    bool
}

// NewModel creates a dashboard that benchmarks algorithms under cfg.
func NewModel(parentCtx context.Context, algorithms []sorting.Algorithm, cfg config.AppConfig, version string) Model {
	names := make([]string, len(algorithms))
	for i, a := range algorithms {
		names[i] = a.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)

	logs := NewLogsModel(names)
	logs.AddExecutionConfig(cfg)

	keymap := DefaultKeyMap()
	return Model{
		header:     NewHeaderModel(version, cfg.Sizes),
		table:      NewAlgorithmsModel(names),
		logs:       logs,
		metrics:    NewMetricsModel(),
		chart:      NewChartModel(),
		footer:     NewFooterModel(keymap),
		keymap:     keymap,
		ExecutionState: ExecutionState{
			ctx:        ctx,
			cancel:     cancel,
			algorithms: algorithms,
			exitCode:   apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
	}
}

// Init starts the benchmark and the samplers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.footer.Tick(),
		startBenchmarkCmd(m.ref, m.ctx, m.algorithms, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case spinner.TickMsg:
		return m, m.footer.Update(msg)

	case ProgressMsg:
		if !m.paused {
			m.table.UpdateProgress(msg)
			m.logs.AddProgressEntry(msg)
			m.chart.AddDataPoint(msg.Value, msg.AverageProgress, msg.ETA)
			m.metrics.UpdateProgress(msg.AverageProgress)
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ResultsMsg:
		m.table.ApplyResults(msg.Results)
		m.logs.AddResults(msg.Results)
		m.metrics.UpdateResults(msg.Results)
		return m, nil

	case FastestMsg:
		m.logs.AddFastest(msg.Result)
		return m, nil

	case ErrorMsg:
		m.logs.AddError(msg)
		m.footer.SetError(true)
		m.finish()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.chart.UpdateSysStats(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case BenchmarkCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.exitCode = msg.ExitCode
		m.finish()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if !m.done {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		m.finish()
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) finish() {
	if m.done {
		return
	}
	m.done = true
	m.header.SetDone()
	m.chart.SetDone(m.header.Elapsed())
	m.footer.SetDone(true)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.footer.ToggleHelp()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		return m.restart()

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.logs.Update(msg)
		return m, nil
	}

	return m, nil
}

// restart cancels the current run and starts a new generation. Messages
// from the previous generation are ignored.
func (m Model) restart() (tea.Model, tea.Cmd) {
	m.cancel()
	m.generation++
	m.ctx, m.cancel = context.WithCancel(m.parentCtx)

	m.header.Reset()
	m.table.Reset()
	m.logs.Reset()
	m.logs.AddExecutionConfig(m.config)
	m.chart.Reset()
	m.metrics = NewMetricsModel()
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.footer.SetDone(false)
	m.footer.SetError(false)
	m.footer.SetPaused(false)
	m.done = false
	m.paused = false
	m.exitCode = apperrors.ExitSuccess

	return m, tea.Batch(
		tickCmd(),
		m.footer.Tick(),
		startBenchmarkCmd(m.ref, m.ctx, m.algorithms, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	right := lipgloss.JoinVertical(lipgloss.Left, m.metrics.View(), m.chart.View())
	left := lipgloss.JoinVertical(lipgloss.Left, m.table.View(), m.logs.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.table.SetWidth(m.leftWidth())
	m.logs.SetSize(m.leftWidth(), max(m.bodyHeight()-m.table.Height(), 4))
	m.metrics.SetSize(m.rightWidth(), m.metricsHeight())
	m.chart.SetSize(m.rightWidth(), m.chartHeight())
}

// Run shows the dashboard for a benchmark of algorithms and returns the
// run's exit code.
func Run(ctx context.Context, algorithms []sorting.Algorithm, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, algorithms, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// The reference must be set before Run so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return apperrors.ExitCodeFor(ctxErr)
	}
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startBenchmarkCmd runs the benchmark and its analysis through the bridge.
func startBenchmarkCmd(ref *programRef, ctx context.Context, algorithms []sorting.Algorithm, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteBenchmarks(ctx, algorithms, cfg.Sizes, cfg.Seed, reporter, io.Discard)
		opts := orchestration.PresentationOptions{Verbose: cfg.Verbose}
		exitCode := orchestration.AnalyzeBenchmarkResults(results, opts, presenter, presenter, io.Discard)

		return BenchmarkCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return MemStatsMsg{
			Alloc:        ms.Alloc,
			HeapInuse:    ms.HeapInuse,
			NumGC:        ms.NumGC,
			PauseTotalNs: ms.PauseTotalNs,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd reports when the run's context is done.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// FooterModel renders the run status, a spinner while the run is active and
// the key help.
type FooterModel struct {
	spinner spinner.Model
	help    help.Model
	keymap  KeyMap
	paused  bool
	done    bool
	failed  bool
	width   int
}

// NewFooterModel creates a footer for keymap.
func NewFooterModel(keymap KeyMap) FooterModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(statusRunningStyle))
	return FooterModel{spinner: s, help: help.New(), keymap: keymap}
}

// Tick returns the command that animates the spinner.
func (f FooterModel) Tick() tea.Cmd { return f.spinner.Tick }

// Update advances the spinner.
func (f *FooterModel) Update(msg spinner.TickMsg) tea.Cmd {
	if f.done {
		return nil
	}
	var cmd tea.Cmd
	f.spinner, cmd = f.spinner.Update(msg)
	return cmd
}

func (f *FooterModel) SetPaused(paused bool) { f.paused = paused }
func (f *FooterModel) SetDone(done bool)     { f.done = done }
func (f *FooterModel) SetError(failed bool)  { f.failed = failed }

// ToggleHelp switches between the short and full key help.
func (f *FooterModel) ToggleHelp() { f.help.ShowAll = !f.help.ShowAll }

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
	f.help.Width = w
}

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("✗ Error")
	case f.done:
		return statusDoneStyle.Render("✓ Done")
	case f.paused:
		return statusPausedStyle.Render("⏸ Paused")
	default:
		return f.spinner.View() + statusRunningStyle.Render(" Running")
	}
}

// View renders the footer.
func (f FooterModel) View() string {
	return " " + f.status() + "  " + f.help.View(f.keymap)
}

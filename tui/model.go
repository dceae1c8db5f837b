// Package tui provides the Bubble Tea terminal UI for linkrot, displaying
// live check progress and a styled summary grouped by error category.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"linkrot/crawler"
	"linkrot/result"
)

// Model is the Bubble Tea model for one crawl run.
type Model struct {
	ctx        context.Context
	cancel     context.CancelFunc
	engine     *crawler.Crawler
	spinner    spinner.Model
	progressCh <-chan crawler.Event

	checked  int
	errors   int
	current  string
	quitting bool
	done     bool
	report   *result.Report
	err      error
	width    int
}

// NewModel creates a TUI model wired to the given crawler and progress
// channel.
func NewModel(ctx context.Context, cancel context.CancelFunc, engine *crawler.Crawler, progressCh <-chan crawler.Event) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		ctx:        ctx,
		cancel:     cancel,
		engine:     engine,
		spinner:    spin,
		progressCh: progressCh,
	}
}

// Init starts the spinner, the crawl, and the progress listener concurrently.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startCrawl(), waitForProgress(m.progressCh))
}

// startCrawl returns a tea.Cmd that runs the crawl and delivers DoneMsg.
func (m Model) startCrawl() tea.Cmd {
	return func() tea.Msg {
		report, err := m.engine.Run(m.ctx)
		if err != nil {
			err = fmt.Errorf("crawl: %w", err)
		}
		return DoneMsg{Report: report, Err: err}
	}
}

// Update handles messages from the Bubble Tea runtime.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			m.cancel()
			// The crawl winds down and delivers its partial report in a
			// DoneMsg, which quits the program.
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case ProgressMsg:
		m.checked = msg.Checked
		m.errors = msg.Errors
		m.current = msg.URL
		return m, waitForProgress(m.progressCh)

	case DoneMsg:
		if msg.Report == nil && msg.Err == nil {
			// The progress channel closed; the report is still on its way
			// from startCrawl.
			return m, nil
		}
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the current TUI state.
func (m Model) View() string {
	if m.done && m.err != nil {
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.done && m.report != nil {
		return RenderSummary(m.report)
	}
	if m.quitting {
		return fmt.Sprintf("%s Cancelling...\n", m.spinner.View())
	}
	return fmt.Sprintf("%s Checking... %d done, %d problems\n%s\n",
		m.spinner.View(), m.checked, m.errors,
		dimStyle.Render("  "+m.current))
}

// HasProblems reports whether the run found any broken links or failures.
func (m Model) HasProblems() bool {
	return m.report != nil && len(m.report.Broken()) > 0
}

// Report returns the finished report for output formatting, or nil if the
// run did not complete.
func (m Model) Report() *result.Report {
	return m.report
}

// Err returns the fatal error from the run, if any.
func (m Model) Err() error {
	return m.err
}

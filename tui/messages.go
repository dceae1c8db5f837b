package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"linkrot/crawler"
	"linkrot/result"
)

// ProgressMsg reports progress for a single checked link.
type ProgressMsg struct {
	Checked int
	Errors  int
	URL     string
}

// DoneMsg signals the crawl has completed.
type DoneMsg struct {
	Report *result.Report
	Err    error
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. When the channel closes, it returns a DoneMsg with nil Report;
// the actual report arrives from the command started by Init.
func waitForProgress(ch <-chan crawler.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return DoneMsg{}
		}
		return ProgressMsg{
			Checked: evt.Checked,
			Errors:  evt.Errors,
			URL:     evt.URL,
		}
	}
}

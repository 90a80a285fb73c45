package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/arch-bert/card-counting/internal/simulator"
)

const (
	maxLogLines = 200
	maxBarWidth = 80
)

// ProgressMsg carries a simulator progress update.
type ProgressMsg simulator.Progress

// RoundMsg adds a line to the round log.
type RoundMsg string

// DoneMsg ends the program with the simulation outcome.
type DoneMsg struct {
	Report *simulator.Report
	Err    error
}

// Model is the Bubble Tea model shown while a simulation runs.
type Model struct {
	title  string
	logger *log.Logger
	cancel func()

	bar         progress.Model
	logViewport viewport.Model
	roundLog    []string

	status   simulator.Progress
	report   *simulator.Report
	err      error
	done     bool
	quitting bool

	width  int
	height int
}

// NewModel creates the progress model. cancel is called when the user
// quits before the simulation finishes.
func NewModel(title string, logger *log.Logger, cancel func()) *Model {
	if cancel == nil {
		cancel = func() {}
	}
	return &Model{
		title:       title,
		logger:      logger.WithPrefix("tui"),
		cancel:      cancel,
		bar:         progress.New(progress.WithDefaultGradient()),
		logViewport: viewport.New(10, 5),
	}
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(maxBarWidth, msg.Width-4))
		m.logViewport.Width = max(1, msg.Width-2)
		m.logViewport.Height = max(1, msg.Height-8)
		m.logViewport.GotoBottom()
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.logger.Debug("User quit", "completed", m.status.Completed)
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.status = simulator.Progress(msg)
		return m, m.bar.SetPercent(m.status.Fraction())

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd

	case RoundMsg:
		m.AddLogEntry(string(msg))

	case DoneMsg:
		m.done = true
		m.report = msg.Report
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting || m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.bar.View())
	b.WriteString("\n")
	b.WriteString(StatusStyle.Render(m.statusLine()))
	b.WriteString("\n")

	if len(m.roundLog) > 0 && m.height > 0 {
		b.WriteString(PaneStyle.Render(m.logViewport.View()))
		b.WriteString("\n")
	}
	b.WriteString(HelpStyle.Render("q: stop simulation"))
	return lipgloss.NewStyle().MaxWidth(max(m.width, maxBarWidth)).Render(b.String())
}

func (m *Model) statusLine() string {
	s := m.status
	line := fmt.Sprintf("%d / %d rounds", s.Completed, s.Total)
	if secs := s.Elapsed.Seconds(); secs > 0 {
		line += fmt.Sprintf("  %.0f rounds/sec", float64(s.Completed)/secs)
	}
	return line
}

// AddLogEntry appends a line to the round log, keeping the newest lines.
func (m *Model) AddLogEntry(entry string) {
	m.roundLog = append(m.roundLog, entry)
	if len(m.roundLog) > maxLogLines {
		m.roundLog = m.roundLog[len(m.roundLog)-maxLogLines:]
	}
	m.logViewport.SetContent(LogStyle.Render(strings.Join(m.roundLog, "\n")))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Result returns the simulation outcome once a DoneMsg has arrived.
func (m *Model) Result() (*simulator.Report, bool, error) {
	return m.report, m.done, m.err
}

// Status returns the latest progress update.
func (m *Model) Status() simulator.Progress {
	return m.status
}

// Log returns the retained round log lines.
func (m *Model) Log() []string {
	return m.roundLog
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sqsnav/internal/logtail"
)

// logLevels is the cycle order of the minimum level filter.
var logLevels = []string{"", "DEBUG", "INFO", "WARN", "ERROR"}

// logState holds all log-related state.
type logState struct {
	follow   bool
	entries  []logtail.Entry
	err      error
	minLevel string

	// Search narrows the view to lines containing needle.
	searching bool
	needle    string
	input     textinput.Model
}

type logLinesMsg struct {
	lines []string
	err   error
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100
	return logState{follow: true, input: ti}
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 10), max(m.contentHeight()-3, 1))
}

// updateLogViewport resizes the log viewport and re-renders its content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	// Box inner height minus the status line under the box.
	m.logViewport.Width = max(m.width-4, 10)
	m.logViewport.Height = max(m.contentHeight()-3, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.refreshLogContent()
}

// refreshLogContent re-renders the visible entries and keeps the tail in
// view while following.
func (m *Model) refreshLogContent() {
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	box := m.renderTitledBox(m.logTitle(), m.logViewport.View(), m.width, m.contentHeight()-1, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

func (m Model) logTitle() string {
	if m.logState.minLevel != "" || m.logState.needle != "" {
		return "Log (filtered)"
	}
	return "Log"
}

func (m Model) visibleEntries() []logtail.Entry {
	return logtail.Filter(m.logState.entries, m.logState.minLevel, m.logState.needle)
}

// renderLogStatus renders the line under the log box.
func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.searching {
		return bg.Render("/", styles.AccentText) + m.logState.input.View()
	}
	if m.logState.err != nil {
		return bg.Render(m.logState.err.Error(), styles.DangerText)
	}

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	visible := len(m.visibleEntries())
	status := fmt.Sprintf("%d/%d lines auto-tail %s level %s", visible, len(m.logState.entries), autoTail, levelLabel(m.logState.minLevel))

	parts := []string{bg.Render(status, styles.FaintText)}
	if m.logState.needle != "" {
		if visible == 0 {
			parts = append(parts, bg.Render("Pattern not found: "+m.logState.needle, styles.DangerText))
		} else {
			parts = append(parts, bg.Render("/"+m.logState.needle, styles.AccentText))
		}
	}
	if m.config != nil && m.config.LogFile != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.config.LogFile, 50), styles.MutedText))
	}
	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the filtered entries with level coloring.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	width := m.logViewport.Width

	entries := m.visibleEntries()
	if len(entries) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, bg.FillLine(m.formatEntry(e, styles, bg), width))
	}
	return strings.Join(lines, "\n")
}

// formatEntry colors one parsed slog line. Unstructured lines render raw.
func (m *Model) formatEntry(e logtail.Entry, styles Styles, bg BgStyle) string {
	if e.Level == "" && e.Time == "" {
		return bg.Render(e.Raw, styles.Text)
	}

	var b strings.Builder
	if ts := shortTime(e.Time); ts != "" {
		b.WriteString(bg.Render(ts, styles.FaintText))
		b.WriteString(bg.Space())
	}
	b.WriteString(bg.Render(fmt.Sprintf("%-5s", e.Level), styles.LevelStyle(e.Level).Background(bg.Color())))
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(e.Msg, styles.Text))
	for _, a := range e.Attrs {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(a.Key+"=", styles.MutedText))
		b.WriteString(bg.Render(a.Value, styles.AccentText))
	}
	return b.String()
}

// shortTime keeps the clock part of an RFC 3339 slog timestamp.
func shortTime(ts string) string {
	if _, rest, ok := strings.Cut(ts, "T"); ok && len(rest) >= 8 {
		return rest[:8]
	}
	return ts
}

// handleLogsKey processes keyboard input for logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, m.readLogsCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.logState.searching = true
		m.logState.input.SetValue(m.logState.needle)
		m.logState.input.CursorEnd()
		return m, m.logState.input.Focus()

	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLevel(m.logState.minLevel)
		m.refreshLogContent()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logState.follow = true
		m.logViewport.GotoBottom()
	}
	return m, nil
}

// handleLogSearchInput handles keystrokes while the search prompt is open.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.logState.searching = false
		m.logState.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.logState.searching = false
		m.logState.input.Blur()
		m.logState.needle = strings.TrimSpace(m.logState.input.Value())
		m.refreshLogContent()
		return m, nil
	}
	var cmd tea.Cmd
	m.logState.input, cmd = m.logState.input.Update(msg)
	return m, cmd
}

func nextLevel(current string) string {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

// readLogsCmd tails the log file off the update loop.
func (m Model) readLogsCmd() tea.Cmd {
	if m.config == nil || m.config.LogFile == "" {
		return nil
	}
	path := m.config.LogFile
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err != nil {
		return
	}
	entries := make([]logtail.Entry, 0, len(msg.lines))
	for _, line := range msg.lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries = append(entries, logtail.ParseLine(line))
	}
	m.logState.entries = entries
	if m.ready {
		m.refreshLogContent()
	}
}

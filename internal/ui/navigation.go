package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sqsnav/internal/prefs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/tree"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.updateModal(msg)
	}

	if m.currentView == ViewLogs && m.logState.searching {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		theme := m.theme.Name
		if err := savePrefs(m.prefsPath, func(p *prefs.Prefs) { p.Theme = theme }); err != nil {
			m.setError(err)
		}
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewTree
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.readLogsCmd()

	case key.Matches(msg, m.keys.WhoAmI):
		cmd := m.whoAmICmd()
		return m, cmd

	case key.Matches(msg, m.keys.Profile):
		return m.openProfilePrompt()

	case key.Matches(msg, m.keys.Endpoint):
		return m.openEndpointPrompt()

	case key.Matches(msg, m.keys.Escape):
		if m.currentView == ViewLogs {
			if m.logState.needle != "" {
				m.logState.needle = ""
				m.refreshLogContent()
				return m, nil
			}
			m.currentView = ViewTree
		}
		m.focusedPane = 0
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleTreeKey(msg)
	}
}

// rows returns the tree pane rows for the current view state.
func (m Model) rows() []row {
	if m.sync == nil {
		return nil
	}
	return buildRows(m.sync.Tree(), m.sync.Visible(), m.expanded)
}

// selectedRow returns the row under the cursor.
func (m Model) selectedRow() (row, bool) {
	rows := m.rows()
	if len(rows) == 0 {
		return row{}, false
	}
	return rows[clamp(m.cursor, 0, len(rows)-1)], true
}

// selectedQueue returns the Queue node owning the row under the cursor.
func (m Model) selectedQueue() (tree.Node, bool) {
	r, ok := m.selectedRow()
	if !ok {
		return tree.Node{}, false
	}
	t := m.sync.Tree()
	id, ok := t.QueueOf(r.node.ID)
	if !ok {
		return tree.Node{}, false
	}
	return t.Node(id)
}

func (m *Model) clampCursor() {
	m.cursor = clamp(m.cursor, 0, len(m.rows())-1)
}

// moveCursor sets the cursor and fetches attributes for a newly selected
// queue that has none cached yet.
func (m *Model) moveCursor(to int) tea.Cmd {
	m.cursor = to
	m.clampCursor()
	m.updateDetailViewport()
	q, ok := m.selectedQueue()
	if !ok {
		return nil
	}
	k := state.QueueKey{Region: q.Region, QueueID: q.QueueID}
	if _, cached := m.attrs[k]; cached {
		return nil
	}
	return m.attributesCmd(q.Region, q.QueueID)
}

// handleTreeKey processes keyboard input for the tree view.
func (m Model) handleTreeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Tab) {
		m.focusedPane = 1 - m.focusedPane
		return m, nil
	}

	if m.focusedPane == 1 {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.detailViewport.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.detailViewport.ScrollDown(1)
		case key.Matches(msg, m.keys.Top):
			m.detailViewport.GotoTop()
		case key.Matches(msg, m.keys.Bottom):
			m.detailViewport.GotoBottom()
		}
		return m, nil
	}

	rows := m.rows()

	switch {
	case key.Matches(msg, m.keys.Up):
		cmd := m.moveCursor(m.cursor - 1)
		return m, cmd
	case key.Matches(msg, m.keys.Down):
		cmd := m.moveCursor(m.cursor + 1)
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		cmd := m.moveCursor(0)
		return m, cmd
	case key.Matches(msg, m.keys.Bottom):
		cmd := m.moveCursor(len(rows) - 1)
		return m, cmd

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.selectedRow(); ok && r.expandable {
			m.expanded[nodeKey(r.node)] = !r.expanded
		}
		return m, nil
	case key.Matches(msg, m.keys.Expand):
		r, ok := m.selectedRow()
		if !ok || !r.expandable {
			return m, nil
		}
		if !r.expanded {
			m.expanded[nodeKey(r.node)] = true
			return m, nil
		}
		cmd := m.moveCursor(m.cursor + 1)
		return m, cmd
	case key.Matches(msg, m.keys.Collapse):
		r, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if r.expanded {
			m.expanded[nodeKey(r.node)] = false
			return m, nil
		}
		if p := parentIndex(rows, m.cursor); p >= 0 {
			cmd := m.moveCursor(p)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.AddQueue):
		return m.openAddQueue()
	case key.Matches(msg, m.keys.RemoveQueue):
		return m.openRemoveQueue()
	case key.Matches(msg, m.keys.Send):
		return m.startSend()
	case key.Matches(msg, m.keys.AttachFile):
		return m.openAttachFile()
	case key.Matches(msg, m.keys.DetachFile):
		return m.detachFile()
	case key.Matches(msg, m.keys.Favorite):
		return m.toggleMark(true)
	case key.Matches(msg, m.keys.Hide):
		return m.toggleMark(false)
	case key.Matches(msg, m.keys.CopyURL):
		return m.copyQueueURL()
	case key.Matches(msg, m.keys.Refresh):
		if q, ok := m.selectedQueue(); ok {
			cmd := m.attributesCmd(q.Region, q.QueueID)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		return m.openFilter()
	case key.Matches(msg, m.keys.OnlyFavorites):
		view := m.sync.Store().View()
		if err := m.sync.SetShowOnlyFavorites(!view.ShowOnlyFavorites); err != nil {
			m.setError(err)
		}
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.ShowHidden):
		view := m.sync.Store().View()
		if err := m.sync.SetShowHidden(!view.ShowHidden); err != nil {
			m.setError(err)
		}
		m.clampCursor()
		return m, nil
	}

	return m, nil
}

// savePrefs reloads the prefs file, applies one change and writes it back, so
// command-line overrides of the other fields are not persisted.
func savePrefs(path string, apply func(*prefs.Prefs)) error {
	p, err := prefs.Load(path)
	if err != nil {
		return err
	}
	apply(&p)
	return prefs.Save(path, p)
}

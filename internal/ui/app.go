package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/sqsnav/internal/config"
	"github.com/five82/sqsnav/internal/prefs"
	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/store"
	"github.com/five82/sqsnav/internal/tree"
)

// View represents the current active view.
type View int

const (
	ViewTree View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Sync      *tree.Synchronizer
	Gateway   sqs.Gateway
	Stats     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Reloads   <-chan store.Event
	PollTick  time.Duration
}

// statusLine is the transient message under the content area.
type statusLine struct {
	text  string
	isErr bool
	at    time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	sync      *tree.Synchronizer
	gateway   sqs.Gateway
	stats     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	reloads   <-chan store.Event
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	focusedPane int // 0 = tree, 1 = detail

	// Tree state
	cursor   int
	expanded map[string]bool

	// Data state
	snapshot state.Snapshot
	attrs    map[state.QueueKey]sqs.Result[map[string]string]
	lastSend map[state.QueueKey]sqs.SendResult
	identity *sqs.Identity

	// Detail state
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Overlays
	showHelp bool
	modal    Modal

	// Status line and in-flight remote calls
	status  statusLine
	pending int
	spinner spinner.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return Model{
		ctx:         ctx,
		sync:        opts.Sync,
		gateway:     opts.Gateway,
		stats:       opts.Stats,
		config:      opts.Config,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		reloads:     opts.Reloads,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewTree,
		expanded:    make(map[string]bool),
		attrs:       make(map[state.QueueKey]sqs.Result[map[string]string]),
		lastSend:    make(map[state.QueueKey]sqs.SendResult),
		logState:    newLogState(),
		spinner:     sp,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.stats != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.stats))
	}
	if m.reloads != nil {
		cmds = append(cmds, waitReloadCmd(m.reloads))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initDetailViewport()
			m.initLogViewport()
		}
		m.ready = true
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.updateDetailViewport()
		return m, nil

	case reloadMsg:
		var selected string
		if r, ok := m.selectedRow(); ok {
			selected = nodeKey(r.node)
		}
		m.sync.Load()
		if i := rowIndex(m.rows(), selected); i >= 0 {
			m.cursor = i
		}
		m.clampCursor()
		m.setStatus("Bookmarks reloaded from disk")
		m.updateDetailViewport()
		return m, waitReloadCmd(m.reloads)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	if next, cmd, ok := m.handleAction(msg); ok {
		return next, cmd
	}

	// Forward everything else (cursor blink and the like) to an open modal.
	if m.modal != nil {
		return m.updateModal(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

func (m Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = next
	}
	return m, cmd
}

// handleTick processes the UI refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.stats != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.stats))
	}

	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, m.readLogsCmd())
	}

	if !m.status.at.IsZero() && time.Since(m.status.at) > StatusTTL {
		m.status = statusLine{}
	}

	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string) {
	m.status = statusLine{text: text, at: time.Now()}
}

func (m *Model) setError(err error) {
	m.status = statusLine{text: err.Error(), isErr: true, at: time.Now()}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusLine())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderTree()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type reloadMsg store.Event

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(stats *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(stats.Snapshot())
	}
}

// waitReloadCmd blocks until the store watcher reports an external change.
func waitReloadCmd(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(ev)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

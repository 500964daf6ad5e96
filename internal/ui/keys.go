package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding
	ViewLogs   key.Binding
	WhoAmI     key.Binding
	Profile    key.Binding
	Endpoint   key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Expand   key.Binding
	Collapse key.Binding
	Toggle   key.Binding

	// Bookmarks
	AddQueue    key.Binding
	RemoveQueue key.Binding
	Send        key.Binding
	AttachFile  key.Binding
	DetachFile  key.Binding
	Favorite    key.Binding
	Hide        key.Binding
	CopyURL     key.Binding
	Refresh     key.Binding

	// View toggles
	Filter        key.Binding
	OnlyFavorites key.Binding
	ShowHidden    key.Binding

	// Logs
	ToggleFollow key.Binding
	Search       key.Binding
	CycleLevel   key.Binding

	// Modals
	Confirm key.Binding
	Submit  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Switch pane"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / cancel"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs"),
		),
		WhoAmI: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Check credentials"),
		),
		Profile: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Switch AWS profile"),
		),
		Endpoint: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "Set AWS endpoint"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("right", "Expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("left", "Collapse"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "Expand/collapse"),
		),

		AddQueue: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add queue"),
		),
		RemoveQueue: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Remove queue"),
		),
		Send: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Send message"),
		),
		AttachFile: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Attach message file"),
		),
		DetachFile: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Detach message file"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("*"),
			key.WithHelp("*", "Toggle favorite"),
		),
		Hide: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Toggle hidden"),
		),
		CopyURL: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy queue URL"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh attributes"),
		),

		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Filter queues"),
		),
		OnlyFavorites: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Only favorites"),
		),
		ShowHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "Show hidden"),
		),

		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search logs"),
		),
		CycleLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle minimum level"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Send"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Toggle, k.Expand, k.Collapse, k.Tab},
		{k.AddQueue, k.RemoveQueue, k.Send, k.AttachFile, k.DetachFile},
		{k.Favorite, k.Hide, k.Filter, k.OnlyFavorites, k.ShowHidden},
		{k.Refresh, k.CopyURL, k.WhoAmI, k.Profile, k.Endpoint, k.ViewLogs},
		{k.ToggleFollow, k.Search, k.CycleLevel},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

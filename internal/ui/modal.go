package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// emit wraps a message in a command.
func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// modalBox draws a bordered, centered dialog.
func modalBox(theme Theme, width, height int, title, body, hint string) string {
	styles := theme.Styles()
	boxWidth := clamp(width*60/100, 40, 100)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")
	b.WriteString(body)
	if hint != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render(hint))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(boxWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// promptModal asks for one line of text.
type promptModal struct {
	title    string
	input    textinput.Model
	onSubmit func(string) tea.Msg
}

func newPromptModal(title, placeholder, initial string, onSubmit func(string) tea.Msg) *promptModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = 60
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	return &promptModal{title: title, input: ti, onSubmit: onSubmit}
}

func (p *promptModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return p, nil, true
		case key.Matches(km, keys.Confirm):
			return p, emit(p.onSubmit(p.input.Value())), true
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, false
}

func (p *promptModal) View(theme Theme, width, height int) string {
	return modalBox(theme, width, height, p.title, p.input.View(), "enter confirm · esc cancel")
}

// pickerModal fuzzy-filters a list of choices.
type pickerModal struct {
	title    string
	items    []string
	filter   textinput.Model
	matches  []int // indices into items
	cursor   int
	onPick   func(string) tea.Msg
	maxShown int
}

func newPickerModal(title string, items []string, onPick func(string) tea.Msg) *pickerModal {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Prompt = "› "
	ti.Width = 60
	ti.Focus()
	p := &pickerModal{title: title, items: items, filter: ti, onPick: onPick, maxShown: 12}
	p.refilter()
	return p
}

// refilter ranks items against the filter text. An empty filter keeps the
// original order.
func (p *pickerModal) refilter() {
	pattern := strings.TrimSpace(p.filter.Value())
	p.matches = p.matches[:0]
	if pattern == "" {
		for i := range p.items {
			p.matches = append(p.matches, i)
		}
	} else {
		for _, m := range fuzzy.Find(pattern, p.items) {
			p.matches = append(p.matches, m.Index)
		}
	}
	p.cursor = clamp(p.cursor, 0, len(p.matches)-1)
}

// selected returns the highlighted item.
func (p *pickerModal) selected() (string, bool) {
	if len(p.matches) == 0 {
		return "", false
	}
	return p.items[p.matches[p.cursor]], true
}

func (p *pickerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return p, nil, true
		case "enter":
			if item, ok := p.selected(); ok {
				return p, emit(p.onPick(item)), true
			}
			return p, nil, false
		case "up", "ctrl+p":
			p.cursor = clamp(p.cursor-1, 0, len(p.matches)-1)
			return p, nil, false
		case "down", "ctrl+n":
			p.cursor = clamp(p.cursor+1, 0, len(p.matches)-1)
			return p, nil, false
		}
	}
	var cmd tea.Cmd
	before := p.filter.Value()
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.refilter()
	}
	return p, cmd, false
}

func (p *pickerModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	boxWidth := clamp(width*60/100, 40, 100) - 6

	var b strings.Builder
	b.WriteString(p.filter.View())
	b.WriteString("\n\n")
	if len(p.matches) == 0 {
		b.WriteString(styles.MutedText.Render("No matching queues"))
	}
	start := 0
	if p.cursor >= p.maxShown {
		start = p.cursor - p.maxShown + 1
	}
	end := min(len(p.matches), start+p.maxShown)
	for i := start; i < end; i++ {
		line := truncateMiddle(p.items[p.matches[i]], boxWidth-2)
		if i == p.cursor {
			b.WriteString(styles.Selected.Render("› " + line))
		} else {
			b.WriteString(styles.Text.Render("  " + line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	title := fmt.Sprintf("%s (%d/%d)", p.title, len(p.matches), len(p.items))
	return modalBox(theme, width, height, title, b.String(), "↑/↓ select · enter add · esc cancel")
}

// composeModal collects a multi-line message body.
type composeModal struct {
	title    string
	area     textarea.Model
	onSubmit func(string) tea.Msg
}

func newComposeModal(title, initial string, onSubmit func(string) tea.Msg) *composeModal {
	ta := textarea.New()
	ta.Placeholder = `{"hello": "world"}`
	ta.ShowLineNumbers = true
	ta.SetWidth(70)
	ta.SetHeight(12)
	ta.CharLimit = 256 * 1024 // SQS maximum message size
	ta.SetValue(initial)
	ta.Focus()
	return &composeModal{title: title, area: ta, onSubmit: onSubmit}
}

func (c *composeModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Escape):
			return c, nil, true
		case key.Matches(km, keys.Submit):
			body := c.area.Value()
			if strings.TrimSpace(body) == "" {
				return c, nil, false
			}
			return c, emit(c.onSubmit(body)), true
		}
	}
	var cmd tea.Cmd
	c.area, cmd = c.area.Update(msg)
	return c, cmd, false
}

func (c *composeModal) View(theme Theme, width, height int) string {
	return modalBox(theme, width, height, c.title, c.area.View(), "ctrl+s send · esc cancel")
}

// confirmModal asks a yes/no question.
type confirmModal struct {
	prompt string
	onYes  tea.Msg
}

func newConfirmModal(prompt string, onYes tea.Msg) *confirmModal {
	return &confirmModal{prompt: prompt, onYes: onYes}
}

func (c *confirmModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch km.String() {
	case "y", "Y", "enter":
		return c, emit(c.onYes), true
	case "n", "N", "esc":
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	return modalBox(theme, width, height, "Confirm", theme.Styles().Text.Render(c.prompt), "y confirm · n cancel")
}

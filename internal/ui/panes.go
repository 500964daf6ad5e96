package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/sqsnav/internal/tree"
)

// paneWidths splits the content width between tree and detail panes.
// Extra wide terminals give the tree 30%, everything else 40%.
func (m Model) paneWidths() (treeWidth, detailWidth int) {
	if m.width >= LayoutExtraWideWidth {
		treeWidth = m.width * 30 / 100
	} else {
		treeWidth = m.width * 40 / 100
	}
	return treeWidth, m.width - treeWidth
}

func (m Model) contentHeight() int {
	return max(m.height-chromeHeight, 3)
}

// renderTree renders the tree view with split layout (tree + detail).
func (m Model) renderTree() string {
	styles := m.theme.Styles()
	height := m.contentHeight()

	rows := m.rows()
	if len(rows) == 0 {
		msg := "No bookmarked queues. Press a to add one."
		if m.sync != nil && len(m.sync.Store().Queues()) > 0 {
			msg = "Nothing matches the current filter."
		}
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, styles.MutedText.Render(msg))
	}

	treeWidth, detailWidth := m.paneWidths()

	treeFocused := m.focusedPane == 0
	treeBg := m.theme.SurfaceAlt
	if treeFocused {
		treeBg = m.theme.FocusBg
	}
	treeContent := m.renderRows(rows, treeWidth-2, height-2, treeBg)
	treePane := m.renderTitledBox(m.treeTitle(len(rows)), treeContent, treeWidth, height, treeFocused)

	detailPane := m.renderTitledBox("Details", m.detailViewport.View(), detailWidth, height, m.focusedPane == 1)

	return lipgloss.JoinHorizontal(lipgloss.Top, treePane, detailPane)
}

func (m Model) treeTitle(n int) string {
	var flags []string
	if m.sync != nil {
		view := m.sync.Store().View()
		if view.ShowOnlyFavorites {
			flags = append(flags, "★")
		}
		if view.ShowHidden {
			flags = append(flags, "+hidden")
		}
	}
	title := fmt.Sprintf("Queues (%d)", n)
	if len(flags) > 0 {
		title += " " + strings.Join(flags, " ")
	}
	return title
}

// renderRows renders the window of rows that keeps the cursor visible.
func (m Model) renderRows(rows []row, width, height int, bgColor string) string {
	cursor := clamp(m.cursor, 0, len(rows)-1)
	start := 0
	if height > 0 && cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(rows), start+max(height, 1))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		selected := i == cursor
		lineBg := bgColor
		if selected {
			lineBg = m.theme.SelectionBg
		}
		content := m.formatRow(rows[i], width, lineBg, selected)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(lineBg)).
			Width(width).
			Render(content))
	}
	return strings.Join(lines, "\n")
}

// formatRow formats one tree row: indent, disclosure marker, marks, label
// and, for queues, the visible message count.
// When selected is true, all parts use SelectionText for contrast.
func (m Model) formatRow(r row, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	n := r.node

	marker := "  "
	if r.expandable {
		marker = "▸ "
		if r.expanded {
			marker = "▾ "
		}
	}

	labelStyle, mutedStyle, favStyle := styles.Text, styles.MutedText, styles.FavoriteText
	switch n.Role {
	case tree.RoleSendGroup, tree.RoleSubscriptionGroup:
		labelStyle = styles.MutedText
	case tree.RoleAdhocSend:
		labelStyle = styles.AccentText
	case tree.RoleFileSend:
		labelStyle = styles.InfoText
	}
	if n.Hidden {
		labelStyle = styles.FaintText
	}
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		labelStyle, mutedStyle, favStyle = sel, sel, sel
	}

	var suffix string
	if n.Role == tree.RoleQueue {
		if st, ok := m.snapshot.Stats(n.Region, n.QueueID); ok && st.Messages >= 0 {
			suffix = fmt.Sprintf("%d", st.Messages)
		}
		if m.config != nil && len(m.config.Regions) > 1 {
			suffix = strings.TrimSpace(n.Region + " " + suffix)
		}
	}

	prefix := strings.Repeat("  ", r.depth) + marker
	if n.Favorite {
		prefix += "★ "
	}
	if n.Hidden {
		prefix += "◌ "
	}

	labelWidth := max(width-ansi.StringWidth(prefix)-ansi.StringWidth(suffix)-2, 4)
	label := truncate(n.Label, labelWidth)

	out := bg.Render(strings.Repeat("  ", r.depth)+marker, mutedStyle)
	if n.Favorite {
		out += bg.Render("★", favStyle) + bg.Space()
	}
	if n.Hidden {
		out += bg.Render("◌", mutedStyle) + bg.Space()
	}
	out += bg.Render(label, labelStyle)
	if suffix != "" {
		gap := max(width-ansi.StringWidth(prefix)-ansi.StringWidth(label)-ansi.StringWidth(suffix), 1)
		out += bg.Spaces(gap) + bg.Render(suffix, mutedStyle)
	}
	return out
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 1))
	titleLen := ansi.StringWidth(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))
	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

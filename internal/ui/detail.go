package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/sqsnav/internal/msgfile"
	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/tree"
)

// previewLines caps the message file preview in the detail pane.
const previewLines = 40

// initDetailViewport initializes the detail viewport.
func (m *Model) initDetailViewport() {
	m.detailViewport = viewport.New(0, 0)
}

// updateDetailViewport resizes the detail viewport and re-renders it for the
// selected row.
func (m *Model) updateDetailViewport() {
	if !m.ready {
		return
	}
	_, detailWidth := m.paneWidths()
	m.detailViewport.Width = max(detailWidth-4, 10)
	m.detailViewport.Height = max(m.contentHeight()-2, 1)

	bgColor := m.theme.SurfaceAlt
	if m.focusedPane == 1 {
		bgColor = m.theme.FocusBg
	}
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(bgColor))

	r, ok := m.selectedRow()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent(r.node, m.detailViewport.Width, bgColor))
}

// renderDetailContent describes the selected node: queue attributes for
// queue rows and their groups, a body preview for message files.
func (m Model) renderDetailContent(n tree.Node, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	var b strings.Builder

	field := func(label, value string, style lipgloss.Style) {
		if value == "" {
			return
		}
		b.WriteString(bg.Render(fmt.Sprintf("%-12s", label), styles.MutedText))
		b.WriteString(bg.Render(truncateMiddle(value, max(width-13, 8)), style))
		b.WriteString("\n")
	}
	heading := func(text string) {
		b.WriteString("\n")
		b.WriteString(bg.Render(text, styles.AccentText.Bold(true)))
		b.WriteString("\n")
	}

	b.WriteString(bg.Render(tree.QueueLabel(n.QueueID), styles.Text.Bold(true)))
	b.WriteString("\n")
	field("Region", n.Region, styles.Text)
	field("URL", n.QueueID, styles.InfoText)

	key := state.QueueKey{Region: n.Region, QueueID: n.QueueID}

	switch n.Role {
	case tree.RoleFileSend:
		heading("Message file")
		field("Path", n.FilePath, styles.Text)
		body, err := msgfile.Load(n.FilePath)
		if err != nil {
			b.WriteString(bg.Render(err.Error(), styles.DangerText))
			b.WriteString("\n")
			break
		}
		kind := "text"
		if msgfile.IsJSON(body.Text) {
			kind = "JSON"
			if body.Stripped {
				kind = "JSONC"
			}
		}
		field("Format", kind, styles.Text)
		field("Size", fmt.Sprintf("%d bytes", len(body.Text)), styles.Text)
		heading("Preview")
		b.WriteString(previewBody(body.Text, width, styles.Text, bg))
		return b.String()

	case tree.RoleAdhocSend:
		heading("Ad hoc send")
		b.WriteString(bg.Render("Press s to compose a message body.", styles.MutedText))
		b.WriteString("\n")

	case tree.RoleSubscriptionGroup:
		heading("Subscriptions")
		b.WriteString(bg.Render("No subscriptions are tracked for this queue.", styles.MutedText))
		b.WriteString("\n")
	}

	m.renderAttributes(&b, key, field, heading, styles, bg)

	if res, ok := m.lastSend[key]; ok {
		heading("Last send")
		field("Message ID", res.MessageID, styles.SuccessText)
		field("Body MD5", res.MD5OfBody, styles.MutedText)
		field("Sequence", res.SequenceNumber, styles.MutedText)
	}

	return b.String()
}

func (m Model) renderAttributes(b *strings.Builder, key state.QueueKey, field func(string, string, lipgloss.Style), heading func(string), styles Styles, bg BgStyle) {
	attrs, fetchedAt := m.queueAttributes(key)

	res, fetched := m.attrs[key]
	if fetched && !res.OK() && attrs == nil {
		heading("Attributes")
		b.WriteString(bg.Render(res.Err.Error(), styles.DangerText))
		b.WriteString("\n")
		return
	}
	if attrs == nil {
		heading("Attributes")
		b.WriteString(bg.Render("Not loaded yet. Press r to refresh.", styles.MutedText))
		b.WriteString("\n")
		return
	}

	heading("Messages")
	field("Visible", attrs[sqs.AttrVisibleMessages], styles.Text)
	field("In flight", attrs[sqs.AttrInFlightMessages], styles.Text)
	field("Delayed", attrs[sqs.AttrDelayedMessages], styles.Text)
	if !fetchedAt.IsZero() {
		field("Updated", formatTimestamp(fetchedAt, time.Now()), styles.MutedText)
	}

	heading("Attributes")
	for _, k := range sqs.SortedKeys(attrs) {
		switch k {
		case sqs.AttrVisibleMessages, sqs.AttrInFlightMessages, sqs.AttrDelayedMessages:
			continue
		}
		field(k, formatAttribute(k, attrs[k]), styles.Text)
	}
}

// queueAttributes prefers the poller snapshot and falls back to the last
// on-demand fetch.
func (m Model) queueAttributes(key state.QueueKey) (map[string]string, time.Time) {
	if st, ok := m.snapshot.Stats(key.Region, key.QueueID); ok && st.Attributes != nil {
		return st.Attributes, st.UpdatedAt
	}
	if res, ok := m.attrs[key]; ok && res.OK() {
		return res.Value, time.Time{}
	}
	return nil, time.Time{}
}

// formatAttribute renders epoch timestamps as local time.
func formatAttribute(name, value string) string {
	switch name {
	case "CreatedTimestamp", "LastModifiedTimestamp":
		var secs int64
		if _, err := fmt.Sscan(value, &secs); err == nil && secs > 0 {
			return formatTimestamp(time.Unix(secs, 0), time.Now())
		}
	}
	return value
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	local := t.In(time.Local)
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04:05")
	}
	return local.Format("Jan 02 15:04")
}

func previewBody(text string, width int, style lipgloss.Style, bg BgStyle) string {
	lines := strings.Split(msgfile.Pretty(text), "\n")
	more := 0
	if len(lines) > previewLines {
		more = len(lines) - previewLines
		lines = lines[:previewLines]
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(bg.Render(ansi.Truncate(line, width, "…"), style))
		b.WriteString("\n")
	}
	if more > 0 {
		b.WriteString(bg.Render(fmt.Sprintf("… %d more lines", more), style.Faint(true)))
		b.WriteString("\n")
	}
	return b.String()
}

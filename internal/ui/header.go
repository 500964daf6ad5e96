package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: profile, bookmark count, poller
// health and the caller identity once known.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	var parts []string
	parts = append(parts, bg.Render("sqsnav", styles.Logo))

	profile := m.prefs.AWSProfile
	if profile == "" {
		profile = "default"
	}
	parts = append(parts,
		bg.Render("Profile:", styles.MutedText)+bg.Space()+bg.Render(profile, styles.Text))

	if !compact && m.prefs.AWSEndpoint != "" {
		parts = append(parts,
			bg.Render("Endpoint:", styles.MutedText)+bg.Space()+
				bg.Render(truncateMiddle(m.prefs.AWSEndpoint, 32), styles.InfoText))
	}

	queues := 0
	if m.sync != nil {
		queues = len(m.sync.Store().Queues())
	}
	parts = append(parts,
		bg.Render("Queues:", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", queues), styles.Text))

	switch {
	case m.snapshot.IsDegraded():
		errText := ""
		if m.snapshot.LastError != nil {
			limit := 60
			if compact {
				limit = 30
			}
			errText = truncate(m.snapshot.LastError.Error(), limit)
		}
		parts = append(parts,
			bg.Render("POLL", styles.DangerText.Bold(true))+bg.Space()+bg.Render(errText, styles.DangerText))
	case !m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render(formatUpdated(m.snapshot.LastUpdated, time.Now()), styles.MutedText))
	}

	if m.identity != nil && !compact {
		parts = append(parts,
			bg.Render("●", styles.SuccessText)+bg.Space()+bg.Render(m.identity.Account, styles.Text))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// formatUpdated formats the last poll time with a relative indicator.
func formatUpdated(t, now time.Time) string {
	since := now.Sub(t)
	out := t.Format("15:04:05")
	switch {
	case since < time.Minute:
		out += " (now)"
	case since < time.Hour:
		out += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		out += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return out
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"/", "Search"},
			{"L", "Level " + levelLabel(m.logState.minLevel)},
			{"l", "Tree"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"a", "Add"},
			{"s", "Send"},
			{"A", "Attach"},
			{"*", "Fav"},
			{"/", "Filter"},
			{"r", "Refresh"},
			{"l", "Logs"},
			{"Tab", "Focus"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewLogs && m.logState.needle != "" {
		segments = append(segments, bg.Render("/"+truncate(m.logState.needle, 18), styles.AccentText))
	}
	if m.currentView == ViewTree && m.sync != nil {
		if f := m.sync.Store().View().Filter; f != "" {
			segments = append(segments, bg.Render("/"+truncate(f, 18), styles.AccentText))
		}
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// renderStatusLine renders the transient status message, with a spinner
// while remote calls are in flight.
func (m Model) renderStatusLine() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var parts []string
	if m.pending > 0 {
		parts = append(parts, bg.Render(m.spinner.View(), styles.AccentText))
	}
	if m.status.text != "" {
		style := styles.MutedText
		if m.status.isErr {
			style = styles.DangerText
		}
		parts = append(parts, bg.Render(truncate(m.status.text, max(m.width-4, 10)), style))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, " "))
}

func levelLabel(level string) string {
	if level == "" {
		return "all"
	}
	return strings.ToLower(level)
}

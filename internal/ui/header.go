package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/state"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("xivoverlay", styles.Logo)}

	open := len(m.snapshot.Open)
	if open > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("● %d open", open), styles.SuccessText))
	} else {
		parts = append(parts, bg.Render("○ none open", styles.MutedText))
	}
	parts = append(parts,
		bg.Render("Overlays:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Overlays)), styles.Text))

	if !compact && m.layoutsDir != "" {
		parts = append(parts,
			bg.Render("dir", styles.FaintText)+bg.Space()+
				bg.Render(truncateMiddle(m.layoutsDir, 40), styles.MutedText))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bg.Render(m.snapshot.LastUpdated.Format("15:04:05"), styles.MutedText))
	}

	if alert, ok := m.visibleAlert(); ok {
		limit := 90
		if compact {
			limit = 40
		}
		label, style := "ERROR", styles.DangerText
		if alert.Level == state.LevelNotice {
			label, style = "NOTE", styles.InfoText
		}
		parts = append(parts,
			bg.Render(label, style.Bold(true))+bg.Space()+
				bg.Render(truncate(alert.Message, limit), style))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// visibleAlert returns the newest alert if it is recent and not dismissed.
func (m Model) visibleAlert() (state.Alert, bool) {
	alert, ok := m.snapshot.LatestAlert()
	if !ok || alert.Seq <= m.dismissedSeq {
		return state.Alert{}, false
	}
	if !m.now.IsZero() && m.now.Sub(alert.At) > AlertDisplayTime {
		return state.Alert{}, false
	}
	return alert, true
}

// renderCommandBar renders the key hints for the current view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.form != nil:
		commands = []cmd{
			{"tab", "Next"},
			{"shift+tab", "Prev"},
			{"Space", "Check"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}
	case m.currentView == ViewLogs:
		followLabel := ternary(m.logState.follow, "Pause", "Follow")
		commands = []cmd{
			{"Space", followLabel},
			{"F", "Level " + levelName(m.logState.minLevel)},
			{"j/k", "Scroll"},
			{"esc", "Overlays"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"Space", "Show/Hide"},
			{"n", "New"},
			{"e", "Edit"},
			{"D", "Delete"},
			{"f", ternary(m.showInactive, "All", "Active")},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	if _, ok := m.visibleAlert(); ok {
		commands = append(commands, cmd{"x", "Dismiss"})
	}

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Bold(true)
	parts := make([]string, 0, len(commands))
	for _, c := range commands {
		parts = append(parts, bg.Render(c.key, keyStyle)+bg.Space()+bg.Render(c.desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

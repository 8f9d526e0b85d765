package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/layout"
)

// detailRecord returns the record to describe in the detail pane: the
// dispatcher's detail when it matches the cursor, else the list entry.
func (m Model) detailRecord() (layout.Record, bool, bool) {
	if m.snapshot.HasDetail && m.snapshot.DetailIsNew {
		return m.snapshot.Detail, true, true
	}
	selected, ok := m.selectedOverlay()
	if !ok {
		return layout.Record{}, false, false
	}
	if m.snapshot.HasDetail && m.snapshot.Detail.Name == selected.Name {
		return m.snapshot.Detail, false, true
	}
	return selected, false, true
}

func (m Model) renderDetail(width int, bgColor string) string {
	r, isNew, ok := m.detailRecord()
	if !ok {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render("Select an overlay")
	}

	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	status := m.overlayStatus(r)
	if isNew {
		status = StatusNew
	}
	name := r.Name
	if name == "" {
		name = "(unsaved)"
	}

	var lines []string
	lines = append(lines,
		bg.Render(name, styles.Text.Bold(true))+bg.Spaces(2)+
			styles.StatusStyle(status).Render(strings.ToUpper(status)),
		"",
	)

	row := func(label, value string, valueStyle lipgloss.Style) {
		lines = append(lines,
			bg.Render(padRight(label, 14), styles.MutedText)+bg.Render(value, valueStyle))
	}
	valueWidth := max(width-16, 10)
	row("URL", truncateMiddle(r.URL, valueWidth), styles.AccentText)
	row("Position", fmt.Sprintf("%d, %d", r.X, r.Y), styles.Text)
	row("Size", fmt.Sprintf("%d × %d", r.Width, r.Height), styles.Text)
	row("Click-through", yesNo(r.Clickthrough), flagStyle(styles, r.Clickthrough))
	row("Decorated", yesNo(r.Decorated), flagStyle(styles, r.Decorated))
	row("Active", yesNo(r.Active), flagStyle(styles, r.Active))
	if !isNew {
		row("File", layout.FileNameFor(r.Name), styles.FaintText)
	}

	if status == StatusStale {
		lines = append(lines, "",
			bg.Render("Marked active but no window is open. Press Space to retry.", styles.WarningText))
	}
	if isNew {
		lines = append(lines, "",
			bg.Render("Not saved yet. Press e to fill in the details.", styles.MutedText))
	}

	for i, line := range lines {
		lines[i] = bg.FillLine(bg.Space()+line, width)
	}
	return strings.Join(lines, "\n")
}

func yesNo(v bool) string {
	return ternary(v, "yes", "no")
}

func flagStyle(styles Styles, on bool) lipgloss.Style {
	if on {
		return styles.SuccessText
	}
	return styles.MutedText
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/layout"
)

// overlayStatus derives the badge state of a record from the snapshot.
func (m Model) overlayStatus(r layout.Record) string {
	switch {
	case m.snapshot.IsOpen(r.Name):
		return StatusOpen
	case r.Active:
		return StatusStale
	default:
		return StatusClosed
	}
}

// visibleOverlays applies the show-inactive filter to the snapshot list.
func (m Model) visibleOverlays() []layout.Record {
	if m.showInactive {
		return m.snapshot.Overlays
	}
	out := make([]layout.Record, 0, len(m.snapshot.Overlays))
	for _, r := range m.snapshot.Overlays {
		if r.Active || m.snapshot.IsOpen(r.Name) {
			out = append(out, r)
		}
	}
	return out
}

// selectedOverlay returns the record under the cursor.
func (m Model) selectedOverlay() (layout.Record, bool) {
	items := m.visibleOverlays()
	if m.selectedRow < 0 || m.selectedRow >= len(items) {
		return layout.Record{}, false
	}
	return items[m.selectedRow], true
}

// clampSelection keeps the cursor inside the list after it changes.
func (m *Model) clampSelection() {
	n := len(m.visibleOverlays())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// followSelection moves the cursor to name if it is visible.
func (m *Model) followSelection(name string) {
	for i, r := range m.visibleOverlays() {
		if r.Name == name {
			m.selectedRow = i
			return
		}
	}
}

func (m Model) listTitle() string {
	open := 0
	for _, r := range m.snapshot.Overlays {
		if m.snapshot.IsOpen(r.Name) {
			open++
		}
	}
	title := fmt.Sprintf("Overlays (%d/%d open)", open, len(m.snapshot.Overlays))
	if !m.showInactive {
		title += " [active]"
	}
	return title
}

// renderList renders one row per visible overlay.
func (m Model) renderList(width int, bgColor string) string {
	items := m.visibleOverlays()
	if len(items) == 0 {
		msg := "No overlays yet. Press n to create one."
		if len(m.snapshot.Overlays) > 0 {
			msg = "No active overlays. Press f to show all."
		}
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(bgColor)).
			Render(msg)
	}

	lines := make([]string, 0, len(items))
	for i, r := range items {
		rowBg := bgColor
		if i == m.selectedRow {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatListRow(r, width, rowBg, i == m.selectedRow)
		lines = append(lines, NewBgStyle(rowBg).FillLine(content, width))
	}
	return strings.Join(lines, "\n")
}

// formatListRow formats "● Name · 420x260 · open".
// Selected rows use SelectionText throughout for contrast.
func (m Model) formatListRow(r layout.Record, width int, bgColor string, selected bool) string {
	bg := NewBgStyle(bgColor)
	status := m.overlayStatus(r)
	size := fmt.Sprintf("%dx%d", r.Width, r.Height)

	nameWidth := max(width-len(size)-len(status)-10, 8)

	var dotStyle, nameStyle, sepStyle, metaStyle, statusStyle lipgloss.Style
	if selected {
		sel := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		dotStyle, nameStyle, sepStyle, metaStyle, statusStyle = sel, sel.Bold(true), sel, sel, sel
	} else {
		styles := m.theme.Styles()
		statusColor := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(status)))
		dotStyle = statusColor
		nameStyle = styles.Text
		sepStyle = styles.FaintText
		metaStyle = styles.MutedText
		statusStyle = statusColor
	}

	dot := ternary(status == StatusClosed, "○", "●")
	return bg.Space() +
		bg.Render(dot, dotStyle) + bg.Space() +
		bg.Render(truncate(r.Name, nameWidth), nameStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(size, metaStyle) +
		bg.Render(" · ", sepStyle) +
		bg.Render(status, statusStyle)
}

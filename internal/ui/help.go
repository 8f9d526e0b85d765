package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

var helpSectionTitles = []string{"Navigation", "Overlays", "Editor", "Logs", "General"}

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 36)))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Warning)).
		Width(12)

	groups := m.keys.FullHelp()
	for i, group := range groups {
		if i < len(helpSectionTitles) {
			b.WriteString(styles.AccentText.Bold(true).Render(helpSectionTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(keyStyle.Render(h.Key))
			b.WriteString(styles.Text.Render(h.Desc))
			b.WriteString("\n")
		}
		if i < len(groups)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Press any key to close"))

	return m.renderModal(b.String(), 44)
}

// renderConfirmDelete renders the delete confirmation modal.
func (m Model) renderConfirmDelete() string {
	styles := m.theme.Styles()
	r := *m.confirmDelete

	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Delete overlay?"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(r.Name))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(r.FileName()))
	b.WriteString("\n\n")
	if m.snapshot.IsOpen(r.Name) {
		b.WriteString(styles.WarningText.Render("Its window will be closed."))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.MutedText.Render(helpLine(m.keys.Confirm) + "  •  " + helpLine(m.keys.Deny)))

	return m.renderModal(b.String(), 44)
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return h.Key + ": " + h.Desc
}

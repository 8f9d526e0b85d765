package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/layout"
)

// Form field order. Text inputs come first, then the two checkboxes.
const (
	fieldName = iota
	fieldURL
	fieldX
	fieldY
	fieldWidth
	fieldHeight
	fieldClickthrough
	fieldDecorated
	fieldCount
)

const textFieldCount = fieldClickthrough

var fieldLabels = [fieldCount]string{
	"Name", "URL", "X", "Y", "Width", "Height", "Click-through", "Decorated",
}

// fieldKeys maps form fields to the names used in validation errors.
var fieldKeys = [fieldCount]string{
	"name", "url", "x", "y", "width", "height", "clickthrough", "decorated",
}

// formState is the overlay editor. base is the record being edited; it is
// sent back with the edits so the dispatcher can find the previous version.
type formState struct {
	base   layout.Record
	isNew  bool
	inputs [textFieldCount]textinput.Model

	clickthrough bool
	decorated    bool
	focus        int

	// set while a save is in flight; alerts newer than pendingSeq mean it failed
	pending        bool
	pendingSeq     uint64
	pendingVersion uint64
	invalid        map[string]bool
}

func newForm(base layout.Record, isNew bool) *formState {
	edits := layout.EditsFrom(base)
	if isNew {
		edits.Name = ""
	}
	values := [textFieldCount]string{edits.Name, edits.URL, edits.X, edits.Y, edits.Width, edits.Height}
	placeholders := [textFieldCount]string{
		"DPS Meter", "http://localhost:8080/overlay", "0", "0", "800", "600",
	}

	f := &formState{
		base:         base,
		isNew:        isNew,
		clickthrough: edits.Clickthrough,
		decorated:    edits.Decorated,
		invalid:      make(map[string]bool),
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 512
		ti.Width = 40
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldName].Focus()
	return f
}

// edits collects the raw form values.
func (f *formState) edits() layout.Edits {
	return layout.Edits{
		Name:         f.inputs[fieldName].Value(),
		URL:          f.inputs[fieldURL].Value(),
		X:            f.inputs[fieldX].Value(),
		Y:            f.inputs[fieldY].Value(),
		Width:        f.inputs[fieldWidth].Value(),
		Height:       f.inputs[fieldHeight].Value(),
		Clickthrough: f.clickthrough,
		Decorated:    f.decorated,
	}
}

// validate runs the same checks the dispatcher will, so obvious mistakes are
// flagged without a round trip. It returns the validation error, if any.
func (f *formState) validate() error {
	_, err := f.edits().Apply(f.base)
	f.invalid = make(map[string]bool)
	var verr *layout.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Fields {
			f.invalid[fe.Field] = true
		}
	}
	return err
}

func (f *formState) setFocus(i int) {
	if f.focus < textFieldCount {
		f.inputs[f.focus].Blur()
	}
	f.focus = (i + fieldCount) % fieldCount
	if f.focus < textFieldCount {
		f.inputs[f.focus].Focus()
	}
}

// handleKey updates the form for one key press. Submission and cancel are
// handled by the caller.
func (f *formState) handleKey(msg tea.KeyMsg, keys keyMap) tea.Cmd {
	switch {
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus(f.focus - 1)
		return nil
	}

	if f.focus >= textFieldCount {
		if key.Matches(msg, keys.Check) || msg.Type == tea.KeyEnter {
			switch f.focus {
			case fieldClickthrough:
				f.clickthrough = !f.clickthrough
			case fieldDecorated:
				f.decorated = !f.decorated
			}
		}
		return nil
	}
	if msg.Type == tea.KeyEnter {
		f.setFocus(f.focus + 1)
		return nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	delete(f.invalid, fieldKeys[f.focus])
	return cmd
}

// title is shown in the form box border.
func (f *formState) title() string {
	if f.isNew {
		return "New Overlay"
	}
	return "Edit " + f.base.Name
}

func (m Model) renderForm(width, height int) string {
	f := m.form
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	labelWidth := 15
	var lines []string
	for i := 0; i < fieldCount; i++ {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		if f.invalid[fieldKeys[i]] {
			labelStyle = styles.DangerText
		}
		label := bg.Render(padRight(fieldLabels[i], labelWidth), labelStyle)

		var value string
		if i < textFieldCount {
			value = f.inputs[i].View()
		} else {
			checked := f.clickthrough
			if i == fieldDecorated {
				checked = f.decorated
			}
			box := ternary(checked, "[x]", "[ ]")
			boxStyle := styles.Text
			if i == f.focus {
				boxStyle = styles.AccentText.Bold(true)
			}
			value = bg.Render(box, boxStyle)
		}
		lines = append(lines, bg.FillLine(bg.Space()+label+value, width-2), bg.FillLine("", width-2))
	}

	status := "ctrl+s save  •  esc cancel  •  tab next field"
	statusStyle := styles.FaintText
	if f.pending {
		status = "Saving..."
		statusStyle = styles.WarningText
	} else if len(f.invalid) > 0 {
		names := make([]string, 0, len(f.invalid))
		for i := 0; i < fieldCount; i++ {
			if f.invalid[fieldKeys[i]] {
				names = append(names, strings.ToLower(fieldLabels[i]))
			}
		}
		status = "Check: " + strings.Join(names, ", ")
		statusStyle = styles.DangerText
	}
	lines = append(lines, bg.FillLine(bg.Space()+bg.Render(status, statusStyle), width-2))

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return m.renderTitledBox(f.title(), content, width, height, true)
}

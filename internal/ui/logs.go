package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	rawLines    []string
	follow      bool
	minLevel    logtail.Level
	lastRefresh time.Time
	err         error

	// bumped whenever rawLines or minLevel change
	contentVersion uint64
	lastRendered   uint64
}

type logLinesMsg struct {
	lines []string
	err   error
}

// initLogState initializes the log state.
func (m *Model) initLogState() {
	m.logState = logState{
		follow:   true,
		minLevel: logtail.LevelDebug,
	}
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(m.width-4, 0), max(m.height-5, 0))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and re-renders content when it changed.
func (m *Model) updateLogViewport() {
	m.logViewport.Width = max(m.width-4, 0)
	m.logViewport.Height = max(m.height-5, 0)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = max(m.logState.contentVersion, 1)
	}
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	contentHeight := m.height - 3

	title := "Log " + truncateMiddle(m.logPath, max(m.width-20, 10))
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, contentHeight, true)
	return box + "\n" + m.renderLogStatus(styles, bg)
}

func (m Model) renderLogStatus(styles Styles, bg BgStyle) string {
	if m.logState.err != nil {
		return bg.Render("Log unavailable: "+m.logState.err.Error(), styles.DangerText)
	}
	lines := logtail.FilterLevel(m.logState.rawLines, m.logState.minLevel)
	parts := []string{
		bg.Render(strings.Join([]string{
			strconv.Itoa(len(lines)), "lines", "level", levelName(m.logState.minLevel) + "+",
			"auto-tail", ternary(m.logState.follow, "on", "off"),
		}, " "), styles.FaintText),
	}
	if !m.logState.lastRefresh.IsZero() {
		parts = append(parts, bg.Render(m.logState.lastRefresh.Format("15:04:05"), styles.MutedText))
	}
	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// renderLogContent renders the filtered, colorized log lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	lines := logtail.FilterLevel(m.logState.rawLines, m.logState.minLevel)
	if len(lines) == 0 {
		return bg.FillLine(bg.Render("No log lines yet", styles.MutedText), width)
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = bg.FillLine(bg.Render(truncate(line, width), m.getLevelStyle(logtail.LineLevel(line), styles)), width)
	}
	return strings.Join(out, "\n")
}

// getLevelStyle returns the style for a log level.
func (m *Model) getLevelStyle(level logtail.Level, styles Styles) lipgloss.Style {
	switch level {
	case logtail.LevelInfo:
		return styles.Text
	case logtail.LevelWarn:
		return styles.WarningText
	case logtail.LevelError:
		return styles.DangerText
	case logtail.LevelDebug:
		return styles.FaintText
	default:
		return styles.MutedText
	}
}

func levelName(l logtail.Level) string {
	switch l {
	case logtail.LevelInfo:
		return "info"
	case logtail.LevelWarn:
		return "warn"
	case logtail.LevelError:
		return "error"
	default:
		return "debug"
	}
}

func nextLevel(l logtail.Level) logtail.Level {
	switch l {
	case logtail.LevelDebug, logtail.LevelUnknown:
		return logtail.LevelInfo
	case logtail.LevelInfo:
		return logtail.LevelWarn
	case logtail.LevelWarn:
		return logtail.LevelError
	default:
		return logtail.LevelDebug
	}
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		if m.logState.follow {
			return m, m.refreshLogs()
		}
	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLevel(m.logState.minLevel)
		m.logState.contentVersion++
		m.updateLogViewport()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	}
	return m, nil
}

// refreshLogs reads the tail of the log file off the UI goroutine.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogBufferLimit)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.lastRefresh = time.Now()
	m.logState.err = msg.err
	if msg.err != nil {
		return
	}
	m.logState.rawLines = msg.lines
	m.logState.contentVersion++
	m.updateLogViewport()
}

package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/xivoverlay/internal/dispatch"
	"github.com/five82/xivoverlay/internal/layout"
	"github.com/five82/xivoverlay/internal/prefs"
	"github.com/five82/xivoverlay/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewOverlays View = iota
	ViewLogs
)

// Submitter accepts actions for the dispatcher without blocking.
type Submitter interface {
	Submit(a dispatch.Action) bool
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	State        *state.Store
	Actions      Submitter
	ThemeName    string
	ShowInactive bool
	PrefsPath    string
	LogPath      string
	LayoutsDir   string
	TickEvery    time.Duration
	Logger       *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	actions    Submitter
	prefsPath  string
	logPath    string
	layoutsDir string
	tickEvery  time.Duration
	keys       keyMap
	logger     *slog.Logger

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	now         time.Time

	// Data state
	snapshot     state.Snapshot
	selectedRow  int
	showInactive bool
	dismissedSeq uint64

	// Editing
	form          *formState
	confirmDelete *layout.Record

	// Log state
	logViewport viewport.Model
	logState    logState

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	tickEvery := opts.TickEvery
	if tickEvery == 0 {
		tickEvery = time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Defaults().Theme
	}

	m := Model{
		ctx:          ctx,
		store:        opts.State,
		actions:      opts.Actions,
		prefsPath:    opts.PrefsPath,
		logPath:      opts.LogPath,
		layoutsDir:   opts.LayoutsDir,
		tickEvery:    tickEvery,
		keys:         DefaultKeyMap(),
		logger:       logger,
		theme:        GetTheme(themeName),
		currentView:  ViewOverlays,
		showInactive: opts.ShowInactive,
	}
	m.initLogState()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tickEvery)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), waitForUpdateCmd(m.ctx, m.store))
	}
	m.submit(dispatch.LoadOverlaysList{})
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case updatedMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, waitForUpdateCmd(m.ctx, m.store)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case stoppedMsg:
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.confirmDelete != nil {
		return m.renderConfirmDelete()
	}
	return m.renderMain()
}

func (m *Model) submit(a dispatch.Action) bool {
	if m.actions == nil {
		return false
	}
	return m.actions.Submit(a)
}

// applySnapshot installs a new snapshot and settles any pending save.
func (m *Model) applySnapshot(s state.Snapshot) {
	if s.Version < m.snapshot.Version {
		return
	}
	m.snapshot = s
	m.clampSelection()
	m.resolvePendingSave()
}

// resolvePendingSave keeps the form open after a failed save and closes it
// once the saved record is published as the detail.
func (m *Model) resolvePendingSave() {
	f := m.form
	if f == nil || !f.pending {
		return
	}
	for _, a := range m.snapshot.Alerts {
		if a.Seq > f.pendingSeq && a.Level == state.LevelError {
			f.pending = false
			return
		}
	}
	if m.snapshot.Version <= f.pendingVersion || !m.snapshot.HasDetail || m.snapshot.DetailIsNew {
		return
	}
	want, err := f.edits().Apply(f.base)
	if err != nil {
		return
	}
	want.Active = m.snapshot.Detail.Active
	if m.snapshot.Detail != want {
		return
	}
	m.form = nil
	m.followSelection(want.Name)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.confirmDelete != nil {
		return m.handleConfirmKey(msg)
	}
	if m.form != nil {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.logState.contentVersion++
		m.updateLogViewport()
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Dismiss):
		if alert, ok := m.snapshot.LatestAlert(); ok {
			m.dismissedSeq = alert.Seq
		}
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewOverlays
		return m, nil
	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.refreshLogs()
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleOverlaysKey(msg)
	}
}

// handleOverlaysKey processes keyboard input for the overlay list.
func (m Model) handleOverlaysKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		m.submit(dispatch.NewOverlay{})
		m.form = newForm(layout.Default(), true)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Refresh):
		m.submit(dispatch.LoadOverlaysList{})
		return m, nil
	case key.Matches(msg, m.keys.ShowInactive):
		selected, ok := m.selectedOverlay()
		m.showInactive = !m.showInactive
		if ok {
			m.followSelection(selected.Name)
		}
		m.clampSelection()
		m.savePrefs()
		return m, nil
	}

	r, ok := m.selectedOverlay()
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if ok {
			m.submit(dispatch.ToggleOverlay{Flip: true, Record: r})
		}
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if d, isNew, found := m.detailRecord(); found {
			m.form = newForm(d, isNew)
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if ok {
			m.confirmDelete = &r
		}
		return m, nil
	}

	n := len(m.visibleOverlays())
	if n == 0 {
		return m, nil
	}
	row := m.selectedRow
	half := max((m.height-4)/2, 1)
	switch {
	case key.Matches(msg, m.keys.Down):
		row++
	case key.Matches(msg, m.keys.Up):
		row--
	case key.Matches(msg, m.keys.Top):
		row = 0
	case key.Matches(msg, m.keys.Bottom):
		row = n - 1
	case key.Matches(msg, m.keys.HalfPageDown):
		row += half
	case key.Matches(msg, m.keys.HalfPageUp):
		row -= half
	default:
		return m, nil
	}
	row = min(max(row, 0), n-1)
	if row != m.selectedRow {
		m.selectedRow = row
		if r, ok := m.selectedOverlay(); ok {
			m.submit(dispatch.SelectOverlay{Name: r.Name})
		}
	}
	return m, nil
}

// handleFormKey routes input to the editor. Only ctrl+c, save and cancel
// are intercepted; everything else edits fields.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Escape):
		if m.form.isNew {
			if r, ok := m.selectedOverlay(); ok {
				m.submit(dispatch.SelectOverlay{Name: r.Name})
			}
		}
		m.form = nil
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveForm()
	}
	if m.form.pending {
		return m, nil
	}
	return m, m.form.handleKey(msg, m.keys)
}

// saveForm validates locally and submits the edits.
func (m *Model) saveForm() tea.Cmd {
	f := m.form
	if f.pending {
		return nil
	}
	if err := f.validate(); err != nil {
		return nil
	}
	if alert, ok := m.snapshot.LatestAlert(); ok {
		f.pendingSeq = alert.Seq
	}
	f.pendingVersion = m.snapshot.Version
	if !m.submit(dispatch.SaveOverlay{Record: f.base, Edits: f.edits()}) {
		return nil
	}
	f.pending = true
	return nil
}

// handleConfirmKey processes the delete confirmation modal.
func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.submit(dispatch.DeleteOverlay{Record: *m.confirmDelete})
		m.confirmDelete = nil
	case key.Matches(msg, m.keys.Deny):
		m.confirmDelete = nil
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ShowInactive: m.showInactive}); err != nil {
		m.logger.Warn("save preferences", "path", m.prefsPath, "error", err)
	}
}

// handleTick advances the clock used for alert expiry and refreshes logs.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.now = now
	cmds := []tea.Cmd{tickCmd(m.tickEvery)}
	if m.currentView == ViewLogs && m.logState.follow &&
		now.Sub(m.logState.lastRefresh) >= LogRefreshInterval {
		if cmd := m.refreshLogs(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	if m.currentView == ViewLogs {
		return m.renderLogs()
	}
	return m.renderOverlays()
}

// renderOverlays lays out the list beside the detail pane or the editor.
// Narrow terminals show one pane at a time.
func (m Model) renderOverlays() string {
	height := max(m.height-2, 3)

	if m.width < LayoutCompactWidth {
		if m.form != nil {
			return m.renderForm(m.width, height)
		}
		listHeight := height / 2
		list := m.renderTitledBox(m.listTitle(),
			m.renderList(max(m.width-2, 0), m.theme.FocusBg), m.width, listHeight, true)
		detail := m.renderTitledBox("Details",
			m.renderDetail(max(m.width-2, 0), m.theme.SurfaceAlt), m.width, height-listHeight, false)
		return list + "\n" + detail
	}

	listWidth := m.width * 2 / 5
	if m.width >= LayoutExtraWideWidth {
		listWidth = m.width / 3
	}
	rightWidth := m.width - listWidth

	list := m.renderTitledBox(m.listTitle(),
		m.renderList(max(listWidth-2, 0), m.theme.FocusBg), listWidth, height, m.form == nil)

	var right string
	if m.form != nil {
		right = m.renderForm(rightWidth, height)
	} else {
		right = m.renderTitledBox("Details",
			m.renderDetail(max(rightWidth-2, 0), m.theme.SurfaceAlt), rightWidth, height, false)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, right)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// updatedMsg carries a snapshot taken after the store signalled a change.
type updatedMsg state.Snapshot

type stoppedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForUpdateCmd blocks until the store changes or ctx ends.
func waitForUpdateCmd(ctx context.Context, store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-store.Updates():
			return updatedMsg(store.Snapshot())
		case <-ctx.Done():
			return stoppedMsg{}
		}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

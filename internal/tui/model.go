package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/chord"
	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/session"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Mode represents the current TUI mode
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeCapture
	ModeHelp
)

// recentGroupID names the tab of commands edited in this session. Slugs
// never contain "~", so it cannot clash with a user group.
const recentGroupID = "~recent"

// capturePurpose says what a finished capture is used for
type capturePurpose int

const (
	captureFilter capturePurpose = iota
	captureAssign
)

// Model represents the TUI state
type Model struct {
	// Core state
	sess     *session.Session
	keybinds *keybinds.Registry
	mode     Mode

	// Filter state
	groupID     string
	settings    types.FilterSettings
	search      string
	filterChord chord.Tracker

	// Capture state
	capture       capturePurpose
	captureTarget string
	assignChord   chord.Tracker

	// Command list
	records []types.CommandRecord
	cursor  int
	offset  int

	helpView viewport.Model

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
}

// New creates a browser over sess. The last opened group is restored.
func New(sess *session.Session, registry *keybinds.Registry) Model {
	if registry == nil {
		registry = keybinds.NewDefaultRegistry()
	}
	m := Model{
		sess:     sess,
		keybinds: registry,
		mode:     ModeBrowse,
		groupID:  sess.LastGroupID(),
		helpView: viewport.New(80, 20),
	}
	m.refreshList()
	m.updateHelpView()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// refreshList re-reads the group settings and re-runs the filter
func (m *Model) refreshList() {
	groupID := m.filterGroupID()
	m.settings = m.sess.Groups.GetGroupSettings(groupID)
	m.records = m.sess.Commands.FilterCommands(
		m.search,
		m.filterChord.ActiveModifiers(),
		m.filterChord.ActiveKey(),
		groupID,
	)
	if m.groupID == recentGroupID {
		m.records = onlyRecent(m.records, m.sess.Commands.RecentCommands())
	}
	m.clampCursor()
}

// filterGroupID is the group whose settings and members drive the list.
// The recent tab filters like "all".
func (m *Model) filterGroupID() string {
	if m.groupID == recentGroupID {
		return types.AllGroupID
	}
	return m.groupID
}

// onlyRecent keeps the records in recent, most recent first
func onlyRecent(records []types.CommandRecord, recent []string) []types.CommandRecord {
	byID := make(map[string]types.CommandRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}
	out := make([]types.CommandRecord, 0, len(recent))
	for _, id := range recent {
		if rec, ok := byID[id]; ok {
			out = append(out, rec)
		}
	}
	return out
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.records) {
		m.cursor = len(m.records) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	height := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+height {
		m.offset = m.cursor - height + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// selected returns the command under the cursor
func (m *Model) selected() (types.CommandRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.records) {
		return types.CommandRecord{}, false
	}
	return m.records[m.cursor], true
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		m.updateHelpView()

	case indexChangedMsg:
		m.refreshList()

	case actionDoneMsg:
		m.refreshList()
		if msg.err != nil {
			cmd = m.setErrorMessage(msg.err.Error())
		} else if msg.status != "" {
			cmd = m.setStatusMessage(msg.status)
		}

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
	}

	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// Message types
type indexChangedMsg struct{}

type actionDoneMsg struct {
	status string
	err    error
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

// Helper methods for setting messages with a timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.errorMsg = ""
	m.statusMsg = truncate(msg, MaxStatusLength)
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.statusMsg = ""
	m.errorMsg = truncate(msg, MaxStatusLength)
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

// groupIDs returns "all", the recent tab once something was edited, then
// every group id in display order
func (m *Model) groupIDs() []string {
	ids := []string{types.AllGroupID}
	if len(m.sess.Commands.RecentCommands()) > 0 || m.groupID == recentGroupID {
		ids = append(ids, recentGroupID)
	}
	for _, g := range m.sess.Groups.Groups() {
		ids = append(ids, g.ID)
	}
	return ids
}

// groupName returns the display name of the current group
func (m *Model) groupName() string {
	return m.nameOf(m.groupID)
}

func (m *Model) nameOf(id string) string {
	if id == recentGroupID {
		return "Recent"
	}
	if g, ok := m.sess.Groups.Group(id); ok {
		return g.Name
	}
	return "All"
}

// switchGroup opens id, applying its default or last used filters
func (m *Model) switchGroup(id string) tea.Cmd {
	if id != recentGroupID {
		if _, err := m.sess.Groups.OpenGroup(context.Background(), id); err != nil {
			return m.setErrorMessage(err.Error())
		}
	}
	m.groupID = id
	m.cursor = 0
	m.offset = 0
	m.refreshList()
	return m.setStatusMessage("Group: " + m.groupName())
}

// cycleGroup moves delta groups forward, wrapping around
func (m *Model) cycleGroup(delta int) tea.Cmd {
	ids := m.groupIDs()
	current := 0
	for i, id := range ids {
		if id == m.groupID {
			current = i
			break
		}
	}
	next := ((current+delta)%len(ids) + len(ids)) % len(ids)
	if ids[next] == m.groupID {
		return nil
	}
	return m.switchGroup(ids[next])
}

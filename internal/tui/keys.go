package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// handleKeyPress routes key presses based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeCapture:
		return m.handleCaptureKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleBrowseKeys(msg)
	}
}

// handleBrowseKeys handles keys on the command list
func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	// Match key to action using keybinds registry
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextBrowse, msg.String())
	if partial || !ok {
		return nil
	}

	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionOpenHelp:
		m.mode = ModeHelp
		m.updateHelpView()

	case keybinds.ActionNavigateUp:
		m.navigate(-1)

	case keybinds.ActionNavigateDown:
		m.navigate(1)

	case keybinds.ActionPageUp:
		m.navigate(-m.listHeight())

	case keybinds.ActionPageDown:
		m.navigate(m.listHeight())

	case keybinds.ActionHalfPageUp:
		m.navigate(-m.halfPage())

	case keybinds.ActionHalfPageDown:
		m.navigate(m.halfPage())

	case keybinds.ActionGoToTop:
		m.cursor = 0
		m.clampCursor()

	case keybinds.ActionGoToBottom:
		m.cursor = len(m.records) - 1
		m.clampCursor()

	case keybinds.ActionOpenSearch:
		m.mode = ModeSearch

	case keybinds.ActionStartCapture:
		m.mode = ModeCapture
		m.capture = captureFilter
		m.filterChord.Reset()
		m.refreshList()
		return m.setStatusMessage(fmt.Sprintf("Press a chord, %s to keep it, %s to clear it",
			m.keybinds.GetBindingString(keybinds.ContextCapture, keybinds.ActionCaptureFinish),
			m.keybinds.GetBindingString(keybinds.ContextCapture, keybinds.ActionCaptureCancel)))

	case keybinds.ActionClearChord:
		m.filterChord.Reset()
		m.refreshList()

	case keybinds.ActionClearSearch:
		m.search = ""
		m.filterChord.Reset()
		m.refreshList()

	case keybinds.ActionNextGroup:
		return m.cycleGroup(1)

	case keybinds.ActionPreviousGroup:
		return m.cycleGroup(-1)

	case keybinds.ActionToggleStrict:
		return m.toggleSetting(types.StrictModifierMatch, "Strict modifiers")

	case keybinds.ActionToggleOnlyCustom:
		return m.toggleSetting(types.OnlyCustom, "Only custom")

	case keybinds.ActionToggleOnlyDuplicates:
		return m.toggleSetting(types.OnlyDuplicates, "Only duplicates")

	case keybinds.ActionToggleShowUnbound:
		return m.toggleSetting(types.ShowCommandsWithoutHotkeys, "Commands without hotkeys")

	case keybinds.ActionToggleDisplayIDs:
		return m.toggleSetting(types.DisplayIDs, "Command ids")

	case keybinds.ActionToggleFeaturedFirst:
		return m.toggleSetting(types.FeaturedFirst, "Featured first")

	case keybinds.ActionToggleSystem:
		return m.toggleSetting(types.DisplaySystemShortcuts, "System shortcuts")

	case keybinds.ActionToggleFeatured:
		return m.toggleFeatured()

	case keybinds.ActionAssignChord:
		return m.startAssign()

	case keybinds.ActionRemoveChord:
		return m.removeSelected()

	case keybinds.ActionRestoreDefaults:
		return m.restoreSelected()

	case keybinds.ActionUndo:
		return m.undo()

	case keybinds.ActionCopyID:
		return m.copySelectedID()

	case keybinds.ActionRefresh:
		return m.refresh()
	}

	return nil
}

// handleSearchKeys handles keys while typing the search text
func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok := m.keybinds.Match(keybinds.ContextSearch, msg.String())
	if ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit

		case keybinds.ActionTextSubmit:
			m.mode = ModeBrowse

		case keybinds.ActionTextCancel:
			m.mode = ModeBrowse
			m.search = ""
			m.refreshList()

		case keybinds.ActionTextBackspace:
			if r := []rune(m.search); len(r) > 0 {
				m.search = string(r[:len(r)-1])
				m.refreshList()
			}

		case keybinds.ActionTextPaste:
			text, err := clipboard.ReadAll()
			if err != nil {
				return m.setErrorMessage(fmt.Sprintf("Failed to read clipboard: %v", err))
			}
			m.search += text
			m.refreshList()

		case keybinds.ActionTextClear:
			m.search = ""
			m.refreshList()

		case keybinds.ActionNavigateUp:
			m.navigate(-1)

		case keybinds.ActionNavigateDown:
			m.navigate(1)
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.search += string(msg.Runes)
		m.refreshList()
	case tea.KeySpace:
		m.search += " "
		m.refreshList()
	}
	return nil
}

// handleCaptureKeys feeds every key that is not bound in the capture
// context to the active chord tracker
func (m *Model) handleCaptureKeys(msg tea.KeyMsg) tea.Cmd {
	if action, ok := m.keybinds.MatchLocal(keybinds.ContextCapture, msg.String()); ok {
		switch action {
		case keybinds.ActionQuitForce:
			return tea.Quit
		case keybinds.ActionCaptureFinish:
			return m.finishCapture()
		case keybinds.ActionCaptureCancel:
			return m.cancelCapture()
		}
		return nil
	}

	if m.capture == captureAssign {
		m.assignChord.HandleKeyMsg(msg)
		return nil
	}
	m.filterChord.HandleKeyMsg(msg)
	m.refreshList()
	return nil
}

// handleHelpKeys scrolls the help view
func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	action, ok, partial := m.keybinds.MatchMultiKey(keybinds.ContextBrowse, msg.String())
	if partial {
		return nil
	}
	if !ok {
		if msg.String() == "esc" {
			m.mode = ModeBrowse
		}
		return nil
	}

	switch action {
	case keybinds.ActionOpenHelp, keybinds.ActionQuit, keybinds.ActionClearSearch:
		m.mode = ModeBrowse

	case keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionNavigateUp:
		m.helpView.LineUp(1)

	case keybinds.ActionNavigateDown:
		m.helpView.LineDown(1)

	case keybinds.ActionPageUp:
		m.helpView.ViewUp()

	case keybinds.ActionPageDown:
		m.helpView.ViewDown()

	case keybinds.ActionHalfPageUp:
		m.helpView.HalfViewUp()

	case keybinds.ActionHalfPageDown:
		m.helpView.HalfViewDown()

	case keybinds.ActionGoToTop:
		m.helpView.GotoTop()

	case keybinds.ActionGoToBottom:
		m.helpView.GotoBottom()
	}

	return nil
}

// navigate moves the cursor by delta, clamped to the list
func (m *Model) navigate(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) halfPage() int {
	half := m.listHeight() / 2
	if half < 1 {
		half = 1
	}
	return half
}

// chordLabel renders a tracker's chord for display
func (m *Model) chordLabel(mods []string, key string) string {
	if len(mods) == 0 && key == "" {
		return ""
	}
	return keys.FormatChord(mods, key, m.sess.Platform())
}

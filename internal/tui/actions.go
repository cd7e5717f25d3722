package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/studiowebux/hotkeyhub/internal/keybinds"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// toggleSetting flips one filter setting of the current group
func (m *Model) toggleSetting(key, label string) tea.Cmd {
	next := !m.settings.Enabled(key)
	if _, err := m.sess.Groups.UpdateGroupFilterSettings(context.Background(), m.filterGroupID(), types.FilterSettings{key: next}); err != nil {
		return m.setErrorMessage(fmt.Sprintf("Failed to save settings: %v", err))
	}
	m.refreshList()
	state := "off"
	if m.settings.Enabled(key) {
		state = "on"
	}
	return m.setStatusMessage(fmt.Sprintf("%s: %s", label, state))
}

// toggleFeatured features or unfeatures the selected command
func (m *Model) toggleFeatured() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	commands := m.sess.Commands
	return func() tea.Msg {
		featured, err := commands.ToggleFeaturedCommand(context.Background(), rec.ID)
		if err != nil {
			return actionDoneMsg{err: err}
		}
		if featured {
			return actionDoneMsg{status: "Featured " + rec.DisplayName}
		}
		return actionDoneMsg{status: "Unfeatured " + rec.DisplayName}
	}
}

// editable returns the selected command when its bindings can be edited
func (m *Model) editable() (types.CommandRecord, tea.Cmd, bool) {
	rec, ok := m.selected()
	if !ok {
		return rec, nil, false
	}
	if rec.IsSystem {
		return rec, m.setErrorMessage("System shortcuts belong to the OS and cannot be edited"), false
	}
	return rec, nil, true
}

// startAssign enters capture mode for the selected command
func (m *Model) startAssign() tea.Cmd {
	rec, cmd, ok := m.editable()
	if !ok {
		return cmd
	}
	m.mode = ModeCapture
	m.capture = captureAssign
	m.captureTarget = rec.ID
	m.assignChord.Reset()
	return m.setStatusMessage(fmt.Sprintf("Press the chord for %s, %s to assign it",
		rec.DisplayName, m.keybinds.GetBindingString(keybinds.ContextCapture, keybinds.ActionCaptureFinish)))
}

// finishCapture keeps the filter chord or assigns the captured one
func (m *Model) finishCapture() tea.Cmd {
	m.mode = ModeBrowse
	if m.capture == captureFilter {
		if m.filterChord.Empty() {
			return nil
		}
		return m.setStatusMessage("Filtering by " + m.chordLabel(m.filterChord.ActiveModifiers(), m.filterChord.ActiveKey()))
	}

	if m.assignChord.ActiveKey() == "" {
		m.assignChord.Reset()
		return m.setErrorMessage("No key captured, nothing assigned")
	}
	p := m.sess.Platform()
	b := types.HotkeyBinding{
		Modifiers: keys.CanonicalizeModifiersForPersist(m.assignChord.ActiveModifiers(), p),
		Key:       m.assignChord.ActiveKey(),
	}
	m.assignChord.Reset()
	return m.assign(m.captureTarget, b)
}

// cancelCapture leaves capture mode. A filter capture clears its chord.
func (m *Model) cancelCapture() tea.Cmd {
	m.mode = ModeBrowse
	if m.capture == captureAssign {
		m.assignChord.Reset()
		return m.setStatusMessage("Assignment cancelled")
	}
	m.filterChord.Reset()
	m.refreshList()
	return nil
}

// assign adds b to a command's bindings
func (m *Model) assign(id string, b types.HotkeyBinding) tea.Cmd {
	editor := m.sess.Editor
	commands := m.sess.Commands
	label := b.Display(m.sess.Platform())
	return func() tea.Msg {
		changed, err := editor.AssignAdditive(context.Background(), id, b)
		if err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to assign %s: %w", label, err)}
		}
		commands.AddRecentCommand(id)
		if !changed {
			return actionDoneMsg{status: fmt.Sprintf("%s already bound to %s", label, id)}
		}
		return actionDoneMsg{status: fmt.Sprintf("Assigned %s to %s", label, id)}
	}
}

// bindingToRemove picks the binding the remove action targets: the one
// matching the filter chord, or the only binding the command has
func (m *Model) bindingToRemove(rec types.CommandRecord) (types.HotkeyBinding, error) {
	p := m.sess.Platform()
	if key := m.filterChord.ActiveKey(); key != "" {
		sig := keys.Signature(m.filterChord.ActiveModifiers(), key, p)
		for _, b := range rec.HotkeysAll {
			if b.Signature(p) == sig {
				return b, nil
			}
		}
		return types.HotkeyBinding{}, fmt.Errorf("%s is not bound to %s", m.chordLabel(m.filterChord.ActiveModifiers(), key), rec.ID)
	}
	switch len(rec.HotkeysAll) {
	case 0:
		return types.HotkeyBinding{}, fmt.Errorf("%s has no hotkeys", rec.ID)
	case 1:
		return rec.HotkeysAll[0], nil
	}
	return types.HotkeyBinding{}, fmt.Errorf("%s has several hotkeys, capture the one to remove first", rec.ID)
}

// removeSelected removes one binding from the selected command
func (m *Model) removeSelected() tea.Cmd {
	rec, cmd, ok := m.editable()
	if !ok {
		return cmd
	}
	b, err := m.bindingToRemove(rec)
	if err != nil {
		return m.setErrorMessage(err.Error())
	}

	editor := m.sess.Editor
	commands := m.sess.Commands
	label := b.Display(m.sess.Platform())
	return func() tea.Msg {
		changed, err := editor.RemoveSingle(context.Background(), rec.ID, b)
		if err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to remove %s: %w", label, err)}
		}
		commands.AddRecentCommand(rec.ID)
		if !changed {
			return actionDoneMsg{status: "Nothing to remove"}
		}
		return actionDoneMsg{status: fmt.Sprintf("Removed %s from %s", label, rec.ID)}
	}
}

// restoreSelected drops the custom bindings of the selected command
func (m *Model) restoreSelected() tea.Cmd {
	rec, cmd, ok := m.editable()
	if !ok {
		return cmd
	}
	editor := m.sess.Editor
	commands := m.sess.Commands
	return func() tea.Msg {
		changed, err := editor.RestoreDefaults(context.Background(), rec.ID)
		if err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to restore %s: %w", rec.ID, err)}
		}
		commands.AddRecentCommand(rec.ID)
		if !changed {
			return actionDoneMsg{status: rec.ID + " already uses its defaults"}
		}
		return actionDoneMsg{status: "Restored defaults for " + rec.ID}
	}
}

// undo reverts the last edit of this session
func (m *Model) undo() tea.Cmd {
	editor := m.sess.Editor
	return func() tea.Msg {
		changed, err := editor.UndoLastChange(context.Background())
		if err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to undo: %w", err)}
		}
		if !changed {
			return actionDoneMsg{status: "Nothing to undo"}
		}
		return actionDoneMsg{status: "Undone"}
	}
}

// copySelectedID copies the selected command id to the clipboard
func (m *Model) copySelectedID() tea.Cmd {
	rec, ok := m.selected()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		if err := clipboard.WriteAll(rec.ID); err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return actionDoneMsg{status: "Copied " + rec.ID}
	}
}

// refresh re-reads the vault and rebuilds the index
func (m *Model) refresh() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		if err := sess.Refresh(context.Background()); err != nil {
			return actionDoneMsg{err: fmt.Errorf("failed to refresh: %w", err)}
		}
		return actionDoneMsg{status: fmt.Sprintf("Loaded %d commands", len(sess.Commands.CommandsList()))}
	}
}

// Package history keeps a persistent log of binding changes and uses it to
// restore undo and revert state in a new process.
package history

import (
	"context"
	"time"

	"github.com/studiowebux/hotkeyhub/internal/hotkeys"
)

// Entry is one stored change
type Entry struct {
	ID        int64            `json:"id" yaml:"id"`
	SessionID string           `json:"sessionId" yaml:"sessionId"`
	Timestamp time.Time        `json:"timestamp" yaml:"timestamp"`
	Vault     string           `json:"vault" yaml:"vault"`
	CommandID string           `json:"commandId" yaml:"commandId"`
	Action    hotkeys.Action   `json:"action" yaml:"action"`
	Chord     string           `json:"chord,omitempty" yaml:"chord,omitempty"`
	Previous  hotkeys.Snapshot `json:"previous" yaml:"previous"`
	Current   hotkeys.Snapshot `json:"current" yaml:"current"`
	Summary   string           `json:"summary" yaml:"summary"`
}

// IsEdit reports whether the entry is an assign, remove or restore
func (e Entry) IsEdit() bool {
	switch e.Action {
	case hotkeys.ActionAssign, hotkeys.ActionRemove, hotkeys.ActionRestore:
		return true
	}
	return false
}

// SeedUndo loads the newest change into the editor's undo slot. Nothing is
// seeded when the newest change is itself an undo or a revert.
func (m *Manager) SeedUndo(ctx context.Context, e *hotkeys.Editor) (bool, error) {
	entries, err := m.Load(ctx, Query{Limit: 1})
	if err != nil {
		return false, err
	}
	if len(entries) == 0 || !entries[0].IsEdit() {
		return false, nil
	}
	e.SeedUndo(entries[0].CommandID, entries[0].Previous)
	return true, nil
}

// SeedRevert loads the state a command had before the oldest edit since it
// was last reverted into the editor's revert buffer
func (m *Manager) SeedRevert(ctx context.Context, e *hotkeys.Editor, commandID string) (bool, error) {
	entries, err := m.Load(ctx, Query{CommandID: commandID})
	if err != nil {
		return false, err
	}

	var base *Entry
	for i := range entries {
		if entries[i].Action == hotkeys.ActionRevert {
			break
		}
		if entries[i].IsEdit() {
			base = &entries[i]
		}
	}
	if base == nil {
		return false, nil
	}
	e.SeedRevert(commandID, base.Previous)
	return true, nil
}

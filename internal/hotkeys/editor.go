// Package hotkeys applies binding edits to the host with single-level undo
// and a per-command revert buffer.
package hotkeys

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/studiowebux/hotkeyhub/internal/host"
	"github.com/studiowebux/hotkeyhub/internal/keys"
	"github.com/studiowebux/hotkeyhub/internal/log"
	"github.com/studiowebux/hotkeyhub/internal/types"
)

// Action names a kind of edit
type Action string

const (
	ActionAssign  Action = "assign"
	ActionRemove  Action = "remove"
	ActionRestore Action = "restore"
	ActionUndo    Action = "undo"
	ActionRevert  Action = "revert"
)

// Snapshot is a command's custom binding state. Present false means the
// command had no custom entry and uses its defaults.
type Snapshot struct {
	Present  bool                  `json:"present"`
	Bindings []types.HotkeyBinding `json:"bindings,omitempty"`
}

// Clone returns a deep copy
func (s Snapshot) Clone() Snapshot {
	return Snapshot{Present: s.Present, Bindings: types.CloneBindings(s.Bindings)}
}

// Change describes one applied edit
type Change struct {
	CommandID string
	Action    Action
	Chord     string
	Previous  Snapshot
	Current   Snapshot
	Summary   string
	At        time.Time
}

// Index is the part of the command index the editor needs
type Index interface {
	Command(id string) (types.CommandRecord, bool)
	Platform() keys.Platform
	RebuildIndex(ctx context.Context) error
}

// Recorder persists applied changes
type Recorder interface {
	Record(ctx context.Context, c Change) error
}

// Option configures an Editor
type Option func(*Editor)

// WithRecorder stores every applied change through r
func WithRecorder(r Recorder) Option {
	return func(e *Editor) {
		e.recorder = r
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Editor) {
		e.now = now
	}
}

type undoSlot struct {
	commandID string
	previous  Snapshot
}

// Editor mutates bindings. Edits are serialized; each one writes the host,
// commits it and rebuilds the index before any undo state is recorded.
type Editor struct {
	reader   host.HotkeyReader
	index    Index
	recorder Recorder
	now      func() time.Time

	mu         sync.Mutex
	lastChange *undoSlot
	reverts    map[string]Snapshot
	changeLog  []string
}

// NewEditor creates an editor. Write capabilities are probed on h at each
// edit, so a read-only host fails with types.ErrUnavailableCapability.
func NewEditor(h host.HotkeyReader, index Index, opts ...Option) *Editor {
	e := &Editor{
		reader:  h,
		index:   index,
		now:     time.Now,
		reverts: make(map[string]Snapshot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AssignAdditive adds b to the command's current bindings, the custom set
// if one exists and the defaults otherwise. The result is always written as
// a custom set.
func (e *Editor) AssignAdditive(ctx context.Context, commandID string, b types.HotkeyBinding) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, w, err := e.prepare(commandID)
	if err != nil {
		return false, err
	}
	if b.Key == "" {
		return false, fmt.Errorf("binding has no key")
	}

	prev := e.current(commandID)
	nb := raw(b, p)
	next := types.DedupeBindings(append(e.base(commandID, p), nb), p)
	cur := Snapshot{Present: true, Bindings: next}

	if err := e.apply(ctx, w, commandID, cur); err != nil {
		return false, err
	}
	e.remember(ctx, Change{
		CommandID: commandID,
		Action:    ActionAssign,
		Chord:     nb.Display(p),
		Previous:  prev,
		Current:   cur,
		Summary:   fmt.Sprintf("Assigned %s to %s", nb.Display(p), commandID),
	})
	return true, nil
}

// RemoveSingle removes the binding matching b's signature. When what is
// left equals the defaults the custom entry is dropped instead.
func (e *Editor) RemoveSingle(ctx context.Context, commandID string, b types.HotkeyBinding) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, w, err := e.prepare(commandID)
	if err != nil {
		return false, err
	}

	base := e.base(commandID, p)
	sig := b.Signature(p)
	remaining := make([]types.HotkeyBinding, 0, len(base))
	for _, existing := range base {
		if existing.Signature(p) != sig {
			remaining = append(remaining, existing)
		}
	}
	if len(remaining) == len(base) {
		return false, nil
	}

	prev := e.current(commandID)
	defaults, _ := e.reader.DefaultHotkeys(commandID)
	cur := Snapshot{Present: true, Bindings: remaining}
	if types.SameSignatures(remaining, defaults, p) {
		cur = Snapshot{}
	}

	if err := e.apply(ctx, w, commandID, cur); err != nil {
		return false, err
	}
	display := raw(b, p).Display(p)
	e.remember(ctx, Change{
		CommandID: commandID,
		Action:    ActionRemove,
		Chord:     display,
		Previous:  prev,
		Current:   cur,
		Summary:   fmt.Sprintf("Removed %s from %s", display, commandID),
	})
	return true, nil
}

// RestoreDefaults drops the command's custom entry
func (e *Editor) RestoreDefaults(ctx context.Context, commandID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, w, err := e.prepare(commandID)
	if err != nil {
		return false, err
	}
	prev := e.current(commandID)
	if !prev.Present {
		return false, nil
	}

	if err := e.apply(ctx, w, commandID, Snapshot{}); err != nil {
		return false, err
	}
	e.remember(ctx, Change{
		CommandID: commandID,
		Action:    ActionRestore,
		Previous:  prev,
		Summary:   fmt.Sprintf("Restored defaults for %s", commandID),
	})
	return true, nil
}

// UndoLastChange puts back the custom bindings the last edit replaced.
// It reports false when there is nothing to undo.
func (e *Editor) UndoLastChange(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.lastChange == nil {
		return false, nil
	}
	slot := *e.lastChange

	_, w, err := e.prepare(slot.commandID)
	if err != nil {
		return false, err
	}
	prev := e.current(slot.commandID)
	if err := e.apply(ctx, w, slot.commandID, slot.previous); err != nil {
		return false, err
	}

	e.lastChange = nil
	e.record(ctx, Change{
		CommandID: slot.commandID,
		Action:    ActionUndo,
		Previous:  prev,
		Current:   slot.previous.Clone(),
		Summary:   fmt.Sprintf("Undid last change to %s", slot.commandID),
	})
	return true, nil
}

// RevertChangeForID restores the bindings a command had before it was
// first edited in this session
func (e *Editor) RevertChangeForID(ctx context.Context, commandID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.reverts[commandID]
	if !ok {
		return false, nil
	}
	_, w, err := e.prepare(commandID)
	if err != nil {
		return false, err
	}
	prev := e.current(commandID)
	if err := e.apply(ctx, w, commandID, snap); err != nil {
		return false, err
	}

	delete(e.reverts, commandID)
	if e.lastChange != nil && e.lastChange.commandID == commandID {
		e.lastChange = nil
	}
	e.record(ctx, Change{
		CommandID: commandID,
		Action:    ActionRevert,
		Previous:  prev,
		Current:   snap.Clone(),
		Summary:   fmt.Sprintf("Reverted %s", commandID),
	})
	return true, nil
}

// ChangeLog returns the human readable lines of every applied change
func (e *Editor) ChangeLog() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.changeLog...)
}

// PendingReverts returns the ids that RevertChangeForID can restore
func (e *Editor) PendingReverts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.reverts))
	for id := range e.reverts {
		out = append(out, id)
	}
	return out
}

// CanUndo reports whether UndoLastChange has anything to restore
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastChange != nil
}

// SeedUndo fills the undo slot from a change recorded by an earlier process
func (e *Editor) SeedUndo(commandID string, previous Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastChange = &undoSlot{commandID: commandID, previous: previous.Clone()}
}

// SeedRevert fills the revert buffer for a command from an earlier process
func (e *Editor) SeedRevert(commandID string, previous Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reverts[commandID] = previous.Clone()
}

// prepare checks the command exists, belongs to the host and the host can
// be written
func (e *Editor) prepare(commandID string) (keys.Platform, *host.Writer, error) {
	p := e.index.Platform()
	rec, ok := e.index.Command(commandID)
	if !ok {
		return p, nil, fmt.Errorf("command %q: %w", commandID, types.ErrNotFound)
	}
	if rec.IsSystem {
		return p, nil, fmt.Errorf("command %q is a system shortcut: %w", commandID, types.ErrNotEditable)
	}
	w, err := host.ProbeWriter(e.reader)
	if err != nil {
		return p, nil, err
	}
	return p, w, nil
}

// current reads the command's custom state from the host
func (e *Editor) current(commandID string) Snapshot {
	custom, ok := e.reader.CustomHotkeys(commandID)
	if !ok {
		return Snapshot{}
	}
	return Snapshot{Present: true, Bindings: custom}
}

// base is the set an edit starts from: custom bindings when a custom entry
// exists, defaults otherwise
func (e *Editor) base(commandID string, p keys.Platform) []types.HotkeyBinding {
	bindings, ok := e.reader.CustomHotkeys(commandID)
	if !ok {
		bindings, _ = e.reader.DefaultHotkeys(commandID)
	}
	out := make([]types.HotkeyBinding, 0, len(bindings)+1)
	for _, b := range bindings {
		out = append(out, raw(b, p))
	}
	return out
}

// apply writes a snapshot to the host, commits and rebuilds the index
func (e *Editor) apply(ctx context.Context, w *host.Writer, commandID string, s Snapshot) error {
	var err error
	if s.Present {
		err = w.Setter.SetHotkeys(commandID, types.CloneBindings(s.Bindings))
	} else {
		err = w.Remover.RemoveHotkeys(commandID)
	}
	if err != nil {
		return fmt.Errorf("failed to write hotkeys for %s: %w", commandID, err)
	}
	if err := w.Commit(ctx); err != nil {
		return err
	}
	if err := e.index.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to refresh index: %w", err)
	}
	return nil
}

// remember fills the undo slot and, for the first edit of a command, its
// revert entry, then logs the change
func (e *Editor) remember(ctx context.Context, c Change) {
	e.lastChange = &undoSlot{commandID: c.CommandID, previous: c.Previous.Clone()}
	if _, ok := e.reverts[c.CommandID]; !ok {
		e.reverts[c.CommandID] = c.Previous.Clone()
	}
	e.record(ctx, c)
}

func (e *Editor) record(ctx context.Context, c Change) {
	c.At = e.now()
	e.changeLog = append(e.changeLog, c.At.Format("15:04:05")+" "+c.Summary)
	log.InfoLog.Print(c.Summary)

	if e.recorder == nil {
		return
	}
	if err := e.recorder.Record(ctx, c); err != nil {
		log.WarningLog.Printf("failed to record change for %s: %v", c.CommandID, err)
	}
}

// raw converts a binding to the host's stored form
func raw(b types.HotkeyBinding, p keys.Platform) types.HotkeyBinding {
	c := b.Canonical(p)
	c.IsCustom = false
	return c
}
